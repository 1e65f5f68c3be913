// Command riskcheck validates risk calculation config files before they are
// deployed to a scoring config dir.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/MikeSquared-Agency/Workup/internal/catalog"
	"github.com/MikeSquared-Agency/Workup/internal/scoring"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: riskcheck file.yaml...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(run(flag.Args(), os.Stdout))
}

// run checks every file and returns the process exit code.
func run(paths []string, out io.Writer) int {
	failed := 0
	versions := map[string]string{}
	for _, path := range paths {
		errs, version := check(path)
		if version != "" {
			if prev, dup := versions[version]; dup {
				errs = append(errs, fmt.Sprintf("version %q already defined in %s", version, prev))
			} else {
				versions[version] = path
			}
		}
		if len(errs) == 0 {
			fmt.Fprintf(out, "ok   %s (%s)\n", path, version)
			continue
		}
		failed++
		fmt.Fprintf(out, "FAIL %s\n", path)
		for _, e := range errs {
			fmt.Fprintf(out, "     %s\n", e)
		}
	}
	if failed > 0 {
		fmt.Fprintf(out, "%d of %d files invalid\n", failed, len(paths))
		return 1
	}
	return 0
}

func check(path string) ([]string, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{err.Error()}, ""
	}
	cfg, err := catalog.Parse(data)
	if err != nil {
		var cfgErr *scoring.ConfigError
		if errors.As(err, &cfgErr) {
			return cfgErr.Errors, ""
		}
		return []string{err.Error()}, ""
	}
	return nil, cfg.Version
}
