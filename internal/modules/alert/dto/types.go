package dto

type PluginInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
}

type DoctorResult struct {
	Name            string
	BinaryReachable bool
	ChecksumValid   bool
	LifecycleOK     bool
	Error           string
}

type PulseInput struct {
	Message string
	Method  string
}

type PulseResult struct {
	Plugin string
	Error  string
}

type PulseOutput struct {
	Results []PulseResult
}
