package cli

// CaptureSourceFlags selects where records come from.
type CaptureSourceFlags struct {
	Restart bool     `help:"Restart the source when it exits (always on for a plain adb logcat stream unless disabled in config)"`
	Buffer  []string `short:"b" help:"Logcat buffers to read (default: main, events, kernel, crash; can be repeated)"`
	Last    bool     `short:"L" help:"Dump logs prior to the last reboot"`
	Dump    bool     `short:"d" help:"Dump the log and then exit (don't block)"`
	Tail    int      `help:"Dump only the most recent N records; implies --dump"`
	Input   []string `short:"i" help:"Read records from files instead of a device (can be repeated)"`
}

// CaptureFilterFlags decide which records are written.
type CaptureFilterFlags struct {
	Level        string   `short:"l" help:"Minimum level: trace, debug, info, warn, error, fatal, assert (or T D I W E F A)"`
	Package      []string `help:"Only keep records from processes of this package (can be repeated)"`
	Profile      string   `short:"p" help:"Apply a profile from the profiles file"`
	ProfilesPath string   `short:"P" help:"Profiles file (default: $ROGCAT_PROFILES or <config dir>/rogcat/profiles.toml)"`
	Head         int      `short:"H" help:"Stop after N written records"`
}

// CaptureOutputFlags control where and how records are written.
type CaptureOutputFlags struct {
	Output         string `short:"o" help:"Write to a file instead of stdout"`
	Overwrite      bool   `help:"Overwrite existing output files"`
	RecordsPerFile string `short:"n" help:"Start a new file every N records (k, M and G suffixes accepted)"`
	FilenameFormat string `short:"a" help:"Output file naming: single, enumerate, date"`
	HideTimestamp  bool   `help:"Hide timestamp in human output"`
	ShowDate       bool   `help:"Show month and day in human output"`
	MessageOnly    bool   `help:"Only print the message in human output"`
	MetricsFile    string `help:"Write capture counters in Prometheus text format to this file on exit"`
}
