package casedocs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TemplatesDirName is the directory under the base data directory holding
// form templates.
const TemplatesDirName = "_Templates"

// BaseDataDirectorySetting names the configuration key the provider needs.
const BaseDataDirectorySetting = "base_data_directory"

var ErrNilFileSystem = errors.New("file system is nil")

// ConfigError reports missing or unusable configuration.
type ConfigError struct {
	Setting string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

type FormField struct {
	Name     string `yaml:"name" json:"name"`
	Label    string `yaml:"label" json:"label"`
	Type     string `yaml:"type" json:"type"`
	Required bool   `yaml:"required" json:"required"`
}

type FormMetadata struct {
	Name    string      `yaml:"name" json:"name"`
	Title   string      `yaml:"title" json:"title"`
	Version int         `yaml:"version" json:"version"`
	Fields  []FormField `yaml:"fields" json:"fields"`
}

// OSFileSystem reads from the local disk.
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// FormMetadataProvider serves case form metadata from YAML templates.
type FormMetadataProvider struct {
	fileSystem         FileSystem
	templatesDirectory string
	logger             *zap.Logger
}

type FormOption func(*FormMetadataProvider)

func WithFormLogger(logger *zap.Logger) FormOption {
	return func(p *FormMetadataProvider) {
		p.logger = logger
	}
}

// NewFormMetadataProvider validates its dependencies up front: it fails when
// fileSystem is nil, when baseDataDirectory is not configured, or when the
// templates directory under it does not exist.
func NewFormMetadataProvider(fileSystem FileSystem, baseDataDirectory string, options ...FormOption) (*FormMetadataProvider, error) {
	if fileSystem == nil {
		return nil, ErrNilFileSystem
	}

	baseDataDirectory = strings.TrimSpace(baseDataDirectory)
	if baseDataDirectory == "" {
		return nil, &ConfigError{
			Setting: BaseDataDirectorySetting,
			Message: fmt.Sprintf("setting '%s' is not configured", BaseDataDirectorySetting),
		}
	}

	p := &FormMetadataProvider{
		fileSystem:         fileSystem,
		templatesDirectory: filepath.Join(baseDataDirectory, TemplatesDirName),
		logger:             zap.NewNop(),
	}

	for _, o := range options {
		o(p)
	}

	info, err := fileSystem.Stat(p.templatesDirectory)
	if err != nil || !info.IsDir() {
		return nil, &ConfigError{
			Setting: BaseDataDirectorySetting,
			Message: fmt.Sprintf("Template directory '%s' does not exist!", p.templatesDirectory),
		}
	}

	p.logger.Sugar().With(
		"directory", p.templatesDirectory,
	).Info("init form metadata provider")

	return p, nil
}

func (p *FormMetadataProvider) TemplatesDirectory() string {
	return p.templatesDirectory
}

var templateExtensions = []string{".yaml", ".yml"}

// ListForms returns the names of all form templates, sorted.
func (p *FormMetadataProvider) ListForms(ctx context.Context) ([]string, error) {
	entries, err := p.fileSystem.ReadDir(p.templatesDirectory)
	if err != nil {
		return nil, fmt.Errorf("read templates directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !slices.Contains(templateExtensions, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}
	slices.Sort(names)

	return slices.Compact(names), nil
}

// FormMetadata loads and parses the template for the named form.
func (p *FormMetadataProvider) FormMetadata(ctx context.Context, name string) (*FormMetadata, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: invalid form name %q", ErrInvalidArgument, name)
	}

	var (
		data []byte
		err  error
	)
	for _, ext := range templateExtensions {
		data, err = p.fileSystem.ReadFile(filepath.Join(p.templatesDirectory, name+ext))
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("form %s: %w", name, ErrNotFound)
	}

	metadata := new(FormMetadata)
	if err := yaml.Unmarshal(data, metadata); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	if metadata.Name == "" {
		metadata.Name = name
	}
	for i, field := range metadata.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return nil, fmt.Errorf("template %s: field %d has no name", name, i)
		}
		if field.Type == "" {
			metadata.Fields[i].Type = "text"
		}
	}

	return metadata, nil
}
