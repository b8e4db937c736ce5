package cli

import (
	"context"
	"io"
	"os"

	"github.com/matzehuels/stackdiagram/pkg/errors"
	pkgio "github.com/matzehuels/stackdiagram/pkg/io"
)

// stdinArg is the argument that reads a manifest from standard input.
const stdinArg = "-"

// resolveManifests expands command arguments into manifest paths.
// Directories expand to the manifests they contain. When pick is set and
// both stdin and stdout are terminals, a directory with several manifests
// opens the picker instead.
func resolveManifests(ctx context.Context, args []string, pick bool) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var out []string
	for _, arg := range args {
		if arg == stdinArg {
			out = append(out, arg)
			continue
		}
		fi, err := os.Stat(arg)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", arg)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", arg)
		}
		if !fi.IsDir() {
			out = append(out, arg)
			continue
		}

		found, err := pkgio.FindManifests(arg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", arg)
		}
		if len(found) == 0 {
			return nil, errors.New(errors.ErrCodeFileNotFound, "no manifests in %s", arg)
		}
		if pick && len(found) > 1 && isTerminal(os.Stdin) && isTerminal(os.Stdout) {
			picked, err := pickManifest(ctx, found)
			if err != nil {
				return nil, err
			}
			found = []string{picked}
		}
		out = append(out, found...)
	}
	return out, nil
}

// loadManifest reads the manifest at path, or from stdin for "-" using the
// given syntax.
func loadManifest(path, syntax string, stdin io.Reader) (*pkgio.Manifest, error) {
	if path != stdinArg {
		return pkgio.Load(path)
	}
	if syntax == "" {
		syntax = string(pkgio.SyntaxYAML)
	}
	s, err := pkgio.ParseSyntax(syntax)
	if err != nil {
		return nil, err
	}
	return pkgio.Decode(stdin, s, "stdin")
}
