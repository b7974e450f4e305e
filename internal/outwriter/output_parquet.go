package outwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/skillsift/skillsift/internal/contract"
	"github.com/skillsift/skillsift/internal/parquet"
	"github.com/skillsift/skillsift/schema"
)

// writeProjectParquetResults flattens projects and writes them to a Parquet file.
// Parquet is a binary format, so an output file is mandatory.
func writeProjectParquetResults(projects []*schema.Project, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	records := parquet.ConvertProjectRecords(projects)
	if err := parquet.WriteProjectsParquet(records, cfg.OutputFile); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %d project record(s) to %s\n", len(records), cfg.OutputFile)
	return nil
}
