package config

import "os"

var (
	DEBUG             = os.Getenv("DEBUG") != ""
	DEBUG_TRACE_BYTES = os.Getenv("DEBUG_TRACE_BYTES") != ""
)
