package hclconfig

// Batch is the decoded `batch "name" { ... }` block: one instance
// directory solved file by file under a shared per-instance budget.
// Optional fields keep their zero value when absent; app.Config applies
// the defaults.
type Batch struct {
	Name string `hcl:"name,label"`

	DataDir   string `hcl:"data_dir"`
	Extension string `hcl:"extension,optional"`
	StartFrom string `hcl:"start_from,optional"`

	TimeLimitSeconds int   `hcl:"time_limit_seconds,optional"`
	Seed             int64 `hcl:"seed,optional"`
	Workers          int   `hcl:"workers,optional"`

	Output    string `hcl:"output,optional"`
	UploadURL string `hcl:"upload_url,optional"`

	LogLevel  string `hcl:"log_level,optional"`
	LogFormat string `hcl:"log_format,optional"`
}
