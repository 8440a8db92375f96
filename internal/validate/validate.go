package validate

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gruppe-adler/aaigrid/internal/utils"
)

// InputFiles validates that all given paths exist and are files
func InputFiles(paths []string) error {
	if len(paths) == 0 {
		return errors.New("no input files given")
	}

	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if !utils.IsFile(p) {
			return fmt.Errorf("%s does not exists or is no file", p)
		}
		if seen[p] {
			return fmt.Errorf("%s is given more than once", p)
		}
		seen[p] = true
	}

	return nil
}

// OutputDirectory validates that given directory exists and none of the
// output paths would overwrite an input file
func OutputDirectory(outputDirectory string, inputs []string, gzip bool) error {
	if !utils.IsDirectory(outputDirectory) {
		return fmt.Errorf("%s does not exists or is no directory", outputDirectory)
	}

	inputSet := make(map[string]bool, len(inputs))
	for _, p := range inputs {
		inputSet[filepath.Clean(p)] = true
	}

	outputs := make(map[string]string, len(inputs))
	for _, p := range inputs {
		out := utils.OutputPath(outputDirectory, p, gzip)
		if inputSet[out] {
			return fmt.Errorf("%s would be overwritten", out)
		}
		if other, ok := outputs[out]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", other, p, out)
		}
		outputs[out] = p
	}

	return nil
}
