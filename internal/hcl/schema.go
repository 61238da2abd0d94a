package hcl

// fileSchema is the top-level layout of a host configuration file. Every
// attribute is optional so that several files can each set a few fields.
type fileSchema struct {
	Bridge   *bridgeBlock   `hcl:"bridge,block"`
	Registry *registryBlock `hcl:"registry,block"`
	HTTP     *httpBlock     `hcl:"http,block"`
	Log      *logBlock      `hcl:"log,block"`
}

type bridgeBlock struct {
	Transport          *string `hcl:"transport,optional"`
	URL                *string `hcl:"url,optional"`
	Namespace          *string `hcl:"namespace,optional"`
	Timeout            *string `hcl:"timeout,optional"`
	InsecureSkipVerify *bool   `hcl:"insecure_skip_verify,optional"`
	QueueSize          *int    `hcl:"queue_size,optional"`
}

type registryBlock struct {
	StrictOwnership *bool `hcl:"strict_ownership,optional"`
}

type httpBlock struct {
	Port *int `hcl:"port,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}
