package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carboncoop/homeenergy/internal/scenario"
)

const scenarioFileExtension = ".json"

// ExpandPaths resolves each argument to scenario files. Directories
// contribute their *.json entries in name order, skipping names that start
// with an underscore; files are kept as given.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", arg, err)
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), "_") ||
				!strings.EqualFold(filepath.Ext(e.Name()), scenarioFileExtension) {
				continue
			}
			files = append(files, filepath.Join(arg, e.Name()))
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

// LoadJobs reads every file into jobs. A project file yields one job per
// scenario named "file/scenario"; a single scenario file is named after the
// file.
func LoadJobs(paths []string) ([]Job, error) {
	var jobs []Job
	for _, path := range paths {
		project, err := scenario.LoadProject(path)
		if err != nil {
			return nil, err
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		for _, name := range project.Names {
			jobName := base
			if project.Wrapped {
				jobName = base + "/" + name
			}
			jobs = append(jobs, Job{Name: jobName, Record: project.Scenarios[name]})
		}
	}
	return jobs, nil
}
