// ABOUTME: Help display for the tauplane CLI with grouped flags, key bindings, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for TAUPLANE_* detection.
package main

import (
	"fmt"
	"io"
	"os"
)

const tauplaneBanner = `
   ·  ─────┼───── τ ─────┼─────  ·
          ╱│╲           ╱│╲
   ζ(s)  ╱ │ ╲  w = log ╱ │ ╲  z ↦ 1/z
`

// envVars are the settings read from the environment, in help order.
var envVars = []string{
	"TAUPLANE_CONFIG",
	"TAUPLANE_COMPUTE_URL",
	"TAUPLANE_BIND",
	"TAUPLANE_DATA_DIR",
	"TAUPLANE_HTTP_TIMEOUT",
	"TAUPLANE_DISCARD_STALE",
	"TAUPLANE_HISTORY",
}

// printHelp writes usage patterns, grouped flags, terminal key bindings,
// examples, and environment status to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprint(w, tauplaneBanner)
	fmt.Fprintf(w, "tauplane %s · complex function explorer\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tauplane [-bind 127.0.0.1:7780]     Serve the web explorer")
	fmt.Fprintln(w, "  tauplane -tui                       Explore in the terminal")
	fmt.Fprintln(w, "  tauplane -print-config              Print the effective configuration")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <file>        YAML config file (default: $XDG_CONFIG_HOME/tauplane/config.yaml)")
	fmt.Fprintln(w, "  -compute-url <url>    Plot compute service (default: http://127.0.0.1:5000)")
	fmt.Fprintln(w, "  -bind <addr>          Web UI listen address, loopback only (default: 127.0.0.1:7780)")
	fmt.Fprintln(w, "  -data-dir <dir>       Cycle history directory (default: $XDG_DATA_HOME/tauplane)")
	fmt.Fprintln(w, "  -no-history           Do not record render cycles")
	fmt.Fprintln(w, "  -tui                  Run the terminal explorer")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Terminal keys:")
	fmt.Fprintln(w, "  u/enter update   p plane   v view   +/- range   [/] points   </> liminal ε")
	fmt.Fprintln(w, "  f next function  e edit f(z)   Z/z zeros   T/t critical line   tab focus   q quit")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  tauplane")
	fmt.Fprintln(w, "  tauplane -compute-url http://localhost:5000 -bind 127.0.0.1:8080")
	fmt.Fprintln(w, "  tauplane -tui -no-history")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	for _, key := range envVars {
		fmt.Fprintf(w, "  %-24s %s\n", key, envStatus(key))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Flags override the environment, which overrides the config file.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Docs: https://github.com/2389-research/tauplane")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
