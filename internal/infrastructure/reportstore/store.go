// Package reportstore keeps one markdown file per report role. Each file
// starts with a YAML front matter block naming the run that produced it.
package reportstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/infrastructure/dataset"

	"gopkg.in/yaml.v3"
)

var _ output.ReportStore = (*FileStore)(nil)

var ErrNotFound = errors.New("report not found")

const frontMatterDelim = "---"

type FileStore struct {
	dir string
}

func New(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Path(role entity.AgentRole) string {
	return filepath.Join(s.dir, role.ReportFileName())
}

type frontMatter struct {
	Role      entity.AgentRole `yaml:"role"`
	RunID     string           `yaml:"run_id,omitempty"`
	Model     string           `yaml:"model,omitempty"`
	CreatedAt time.Time        `yaml:"created_at"`
}

func (s *FileStore) Save(ctx context.Context, report entity.AgentReport) error {
	if !report.Role.Valid() {
		return fmt.Errorf("unknown report role %q", report.Role)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(report)
	if err != nil {
		return err
	}
	return dataset.WriteFileAtomic(s.Path(report.Role), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func (s *FileStore) Load(ctx context.Context, role entity.AgentRole) (entity.AgentReport, error) {
	data, err := os.ReadFile(s.Path(role))
	if errors.Is(err, os.ErrNotExist) {
		return entity.AgentReport{}, fmt.Errorf("%s: %w", role, ErrNotFound)
	}
	if err != nil {
		return entity.AgentReport{}, fmt.Errorf("read %s report: %w", role, err)
	}

	report, err := Decode(data)
	if err != nil {
		return entity.AgentReport{}, fmt.Errorf("decode %s report: %w", role, err)
	}
	if report.Role == "" {
		report.Role = role
	}
	return report, nil
}

func (s *FileStore) Exists(role entity.AgentRole) bool {
	_, err := os.Stat(s.Path(role))
	return err == nil
}

// List loads every stored report in pipeline order.
func (s *FileStore) List(ctx context.Context) ([]entity.AgentReport, error) {
	var reports []entity.AgentReport
	for _, role := range entity.AgentRoles {
		if !s.Exists(role) {
			continue
		}
		r, err := s.Load(ctx, role)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func Encode(report entity.AgentReport) ([]byte, error) {
	meta, err := yaml.Marshal(frontMatter{
		Role:      report.Role,
		RunID:     report.RunID,
		Model:     report.Model,
		CreatedAt: report.CreatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	buf.Write(meta)
	buf.WriteString(frontMatterDelim + "\n\n")
	buf.WriteString(report.Text)
	if !strings.HasSuffix(report.Text, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Decode parses a stored report. Files without front matter are taken as
// plain report text.
func Decode(data []byte) (entity.AgentReport, error) {
	text := string(data)
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return entity.AgentReport{Text: strings.TrimSpace(text)}, nil
	}

	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim+"\n")
	if end < 0 {
		return entity.AgentReport{}, fmt.Errorf("unterminated front matter")
	}

	var meta frontMatter
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &meta); err != nil {
		return entity.AgentReport{}, fmt.Errorf("parse front matter: %w", err)
	}

	return entity.AgentReport{
		Role:      meta.Role,
		Text:      strings.TrimSpace(rest[end+len(frontMatterDelim)+2:]),
		RunID:     meta.RunID,
		Model:     meta.Model,
		CreatedAt: meta.CreatedAt,
	}, nil
}
