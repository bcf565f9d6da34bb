// Package smile wraps the openSMILE feature-extraction engine behind its
// SMILExtract command-line binary. The package owns the dependency boundary:
// availability checks, the catalog of predefined feature sets, signal handoff
// over temporary WAV files, and parsing of the engine's CSV output. No
// feature computation happens on this side of the boundary.
package smile

// FeatureSet names a predefined openSMILE feature set, or holds the path to
// a custom engine config file.
type FeatureSet string

// FeatureLevel selects the extraction granularity of a feature set.
type FeatureLevel string

// Predefined feature sets shipped with the openSMILE distribution.
const (
	ComParE2016 FeatureSet = "ComParE_2016"
	GeMAPS      FeatureSet = "GeMAPS"
	GeMAPSv01a  FeatureSet = "GeMAPSv01a"
	GeMAPSv01b  FeatureSet = "GeMAPSv01b"
	EGeMAPS     FeatureSet = "eGeMAPS"
	EGeMAPSv01a FeatureSet = "eGeMAPSv01a"
	EGeMAPSv01b FeatureSet = "eGeMAPSv01b"
	EGeMAPSv02  FeatureSet = "eGeMAPSv02"
	Emobase     FeatureSet = "emobase"
)

// Feature levels understood by the predefined configs.
const (
	// LowLevelDescriptors produces one row of descriptors per analysis frame.
	LowLevelDescriptors FeatureLevel = "lld"
	// LowLevelDeltas produces frame-wise delta regression coefficients.
	LowLevelDeltas FeatureLevel = "lld_de"
	// Functionals aggregates descriptors into a single summary row.
	Functionals FeatureLevel = "func"
)

// featureSetConfigs maps each predefined set to its config file, relative to
// the openSMILE config root. Layout follows the upstream distribution.
var featureSetConfigs = map[FeatureSet]string{
	ComParE2016: "compare16/ComParE_2016.conf",
	GeMAPS:      "gemaps/v01a/GeMAPSv01a.conf",
	GeMAPSv01a:  "gemaps/v01a/GeMAPSv01a.conf",
	GeMAPSv01b:  "gemaps/v01b/GeMAPSv01b.conf",
	EGeMAPS:     "egemaps/v01a/eGeMAPSv01a.conf",
	EGeMAPSv01a: "egemaps/v01a/eGeMAPSv01a.conf",
	EGeMAPSv01b: "egemaps/v01b/eGeMAPSv01b.conf",
	EGeMAPSv02:  "egemaps/v02/eGeMAPSv02.conf",
	Emobase:     "emobase/emobase.conf",
}

// featureSetOrder fixes the enumeration order of FeatureSetNames.
var featureSetOrder = []FeatureSet{
	ComParE2016,
	GeMAPS,
	GeMAPSv01a,
	GeMAPSv01b,
	EGeMAPS,
	EGeMAPSv01a,
	EGeMAPSv01b,
	EGeMAPSv02,
	Emobase,
}

// outputFlags maps a feature level to the command-line option the predefined
// configs expose for CSV output at that level.
var outputFlags = map[FeatureLevel]string{
	LowLevelDescriptors: "-lldcsvoutput",
	LowLevelDeltas:      "-lldcsvoutput",
	Functionals:         "-csvoutput",
}

// FeatureSetNames returns the ordered names of the predefined feature sets,
// after verifying the engine is installed. The enumeration itself is static;
// the availability check keeps the contract that querying the engine without
// an installation fails with install instructions.
func FeatureSetNames() ([]string, error) {
	if err := Available(); err != nil {
		return nil, err
	}

	names := make([]string, len(featureSetOrder))
	for i, set := range featureSetOrder {
		names[i] = string(set)
	}
	return names, nil
}

// IsPredefined reports whether the feature set names one of the predefined
// configs, as opposed to a custom config file path.
func (f FeatureSet) IsPredefined() bool {
	_, ok := featureSetConfigs[f]
	return ok
}

// OutputFlag returns the CSV output option for the level, defaulting to
// -csvoutput for levels only a custom config would define.
func (l FeatureLevel) OutputFlag() string {
	if flag, ok := outputFlags[l]; ok {
		return flag
	}
	return "-csvoutput"
}
