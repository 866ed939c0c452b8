// Package preproc loads header text for typedef extraction.
// By default it reads the file and strips comments, so commented-out
// typedefs are not picked up. It can instead run the system C
// preprocessor (cc -E) when the header depends on macros or includes.
package preproc

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Options configures header loading
type Options struct {
	IncludePaths []string          // -I directories
	Defines      map[string]string // -D macros (name -> value, empty string for simple define)
	Undefines    []string          // -U macros
	UseExternal  bool              // Run the system preprocessor
}

// commentRe matches either comment kind; the leftmost one wins, so a "/*"
// inside a line comment does not open a block.
var commentRe = regexp.MustCompile(`//[^\n]*|/\*[\s\S]*?\*/`)

// Load reads the header at filename and returns the text typedef
// extraction should see.
func Load(filename string, opts *Options) (string, error) {
	if opts != nil && opts.UseExternal {
		return preprocessExternal(filename, opts)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return Clean(string(data)), nil
}

// Clean strips C comments and normalizes line endings. A block comment is
// replaced by a space so that tokens on either side stay separated.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return commentRe.ReplaceAllStringFunc(s, func(c string) string {
		if strings.HasPrefix(c, "//") {
			return ""
		}
		return " "
	})
}

// preprocessExternal uses the system C preprocessor (cc -E)
func preprocessExternal(filename string, opts *Options) (string, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}

	args := cppArgs(abs, opts)

	cppCmd := findPreprocessor()
	if cppCmd == "" {
		return "", fmt.Errorf("no C preprocessor found (tried: cc, gcc, clang)")
	}

	cmd := exec.Command(cppCmd, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Set the working directory to the file's directory for relative includes
	cmd.Dir = filepath.Dir(abs)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("preprocessing failed: %w\n%s", err, stderr.String())
	}

	return stdout.String(), nil
}

// cppArgs builds the cc -E command line for the header at abs. Macros are
// passed in name order so repeated runs see identical arguments.
func cppArgs(abs string, opts *Options) []string {
	args := []string{"-E", "-P"} // Preprocess only, no line markers

	for _, path := range opts.IncludePaths {
		args = append(args, "-I"+path)
	}
	names := make([]string, 0, len(opts.Defines))
	for name := range opts.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if value := opts.Defines[name]; value != "" {
			args = append(args, "-D"+name+"="+value)
		} else {
			args = append(args, "-D"+name)
		}
	}
	for _, name := range opts.Undefines {
		args = append(args, "-U"+name)
	}

	// Headers are not translation units; force C so cc does not guess
	// from the extension.
	return append(args, "-x", "c", abs)
}

// findPreprocessor searches for a C preprocessor on the system
func findPreprocessor() string {
	candidates := []string{"cc", "gcc", "clang"}

	for _, cmd := range candidates {
		if path, err := exec.LookPath(cmd); err == nil {
			return path
		}
	}
	return ""
}
