// Command urlcheck lints internal links against the portal's base path:
// doubled base paths, repeated slashes, missing leading slashes.
//
//	urlcheck /it/it/blog //casino
//	urlcheck --file links.txt --json
//	cat links.txt | urlcheck --strict
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/format"
)

var errIssuesFound = errors.New("url issues found")

type options struct {
	basePath string
	siteURL  string
	file     string
	asJSON   bool
	strict   bool
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "urlcheck [url...]",
		Short:         "Check internal URLs for base-path and slash problems",
		Long:          "Reports what the portal would do with each URL. Reads arguments, --file, or stdin (one URL per line).",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls, err := collect(args, opts.file, stdin)
			if err != nil {
				return err
			}
			return run(stdout, format.NewPaths(opts.basePath, opts.siteURL), urls, opts)
		},
	}
	cmd.Flags().StringVar(&opts.basePath, "base-path", format.Default.BasePath, "site base path")
	cmd.Flags().StringVar(&opts.siteURL, "site-url", format.Default.SiteURL, "public site origin")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read URLs from this file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit one JSON report per line")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when any URL has issues")
	return cmd
}

func collect(args []string, file string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	src := stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src = f
	}
	var urls []string
	sc := bufio.NewScanner(src)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}

func run(w io.Writer, p format.Paths, urls []string, opts options) error {
	bad := 0
	enc := json.NewEncoder(w)
	for _, u := range urls {
		r := p.Check(u)
		if !r.OK() {
			bad++
		}
		if opts.asJSON {
			if err := enc.Encode(r); err != nil {
				return err
			}
			continue
		}
		status := "ok"
		if !r.OK() {
			status = strings.Join(r.Issues, "; ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", u, r.Absolute, status)
	}
	if opts.strict && bad > 0 {
		return fmt.Errorf("%w: %d of %d", errIssuesFound, bad, len(urls))
	}
	return nil
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "urlcheck:", err)
		os.Exit(1)
	}
}
