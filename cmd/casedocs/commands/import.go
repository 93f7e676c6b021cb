package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RichardKnop/casedocs"
)

// importFile is the YAML layout accepted by the import command.
type importFile struct {
	Cases []struct {
		Ref       string    `yaml:"ref"`
		Surveyor  string    `yaml:"surveyor"`
		Address   string    `yaml:"address"`
		Status    string    `yaml:"status"`
		Created   time.Time `yaml:"created"`
		Documents []struct {
			Title    string    `yaml:"title"`
			FileName string    `yaml:"file_name"`
			Created  time.Time `yaml:"created"`
		} `yaml:"documents"`
	} `yaml:"cases"`
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import case records and their documents from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			cases, documents, err := parseImportFile(data)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.service.ImportCases(cmd.Context(), cases, documents); err != nil {
				return err
			}

			logger.Sugar().With(
				"cases", len(cases),
				"documents", len(documents),
			).Info("import complete")
			return nil
		},
	}

	return cmd
}

func parseImportFile(data []byte) ([]*casedocs.Case, []casedocs.Document, error) {
	var f importFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse import file: %w", err)
	}

	var (
		cases     = make([]*casedocs.Case, 0, len(f.Cases))
		documents []casedocs.Document
	)
	for _, c := range f.Cases {
		cases = append(cases, &casedocs.Case{
			Ref:          casedocs.CaseRef(c.Ref),
			SurveyorCode: casedocs.SurveyorCode(c.Surveyor),
			Address:      c.Address,
			Status:       casedocs.CaseStatus(c.Status),
			Created:      c.Created,
		})
		for _, d := range c.Documents {
			documents = append(documents, casedocs.Document{
				CaseRef:  casedocs.CaseRef(c.Ref),
				Title:    d.Title,
				FileName: d.FileName,
				Created:  d.Created,
			})
		}
	}

	return cases, documents, nil
}
