package project

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.jacobcolvin.com/mlx/checkarg"
	"go.jacobcolvin.com/mlx/pretty"
)

// Directory names accepted by [LayoutOptions.MakeDirs].
const (
	DirDataset = "dataset"
	DirModel   = "model"
	DirPlot    = "plot"
	DirEval    = "eval"
)

// ErrInvalidTitle indicates a figure title that cannot be used as a file
// name.
var ErrInvalidTitle = errors.New("invalid title")

// FigureDPI is the resolution passed to [Figure.SaveFig].
const FigureDPI = 300

// AllDirs returns every directory name accepted by
// [LayoutOptions.MakeDirs].
func AllDirs() []string {
	return []string{DirDataset, DirModel, DirPlot, DirEval}
}

var dirs = func() *checkarg.Checker {
	c := checkarg.New(checkarg.WithIgnoreEmpty(false))
	_ = c.Cache("Directories to create", "dir", AllDirs())

	return c
}()

// Figure is a rendered plot that can be written to disk.
type Figure interface {
	SaveFig(path string, dpi int) error
}

// LayoutOptions describes the directory structure of a project.
type LayoutOptions struct {
	// Logger logs created directories and saved figures. Nil discards.
	Logger *slog.Logger
	// Clock defaults to [time.Now].
	Clock func() time.Time
	// BasePath contains the project directory.
	BasePath string
	// ProjectDir is the project directory name under BasePath.
	ProjectDir string
	// DatasetDir is the dataset directory name.
	DatasetDir string
	// ModelDir is the model directory name.
	ModelDir string
	// MakeDirs lists the directories to create, see [AllDirs].
	MakeDirs []string
	// OutsideProject places the dataset and model directories under
	// BasePath instead of the project directory.
	OutsideProject bool
}

// Layout holds the paths of a project.
//
// Create instances with [NewLayout].
type Layout struct {
	log         *slog.Logger
	clock       func() time.Time
	ProjectPath string
	DatasetPath string
	ModelPath   string
	PlotPath    string
	EvalPath    string
}

// NewLayout computes the paths described by opts and creates the
// directories listed in [LayoutOptions.MakeDirs]. Names are validated
// before anything is created.
func NewLayout(opts LayoutOptions) (*Layout, error) {
	for _, d := range opts.MakeDirs {
		err := dirs.Check("dir", d)
		if err != nil {
			return nil, err
		}
	}

	l := &Layout{
		log:         opts.Logger,
		clock:       opts.Clock,
		ProjectPath: filepath.Join(opts.BasePath, opts.ProjectDir),
	}

	if l.log == nil {
		l.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if l.clock == nil {
		l.clock = time.Now
	}

	root := l.ProjectPath
	if opts.OutsideProject {
		root = opts.BasePath
	}

	l.DatasetPath = filepath.Join(root, opts.DatasetDir)
	l.ModelPath = filepath.Join(root, opts.ModelDir)
	l.PlotPath = filepath.Join(l.ProjectPath, DirPlot)
	l.EvalPath = filepath.Join(l.ProjectPath, DirEval)

	for _, d := range opts.MakeDirs {
		err := l.mkdir(l.Path(d))
		if err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Path returns the path of the directory called name, see [AllDirs], or ""
// for unknown names.
func (l *Layout) Path(name string) string {
	switch name {
	case DirDataset:
		return l.DatasetPath
	case DirModel:
		return l.ModelPath
	case DirPlot:
		return l.PlotPath
	case DirEval:
		return l.EvalPath
	}

	return ""
}

func (l *Layout) mkdir(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	err = os.MkdirAll(path, 0o750)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	l.log.Info("created directory", slog.String("path", path))

	return nil
}

// FigureOptions controls [Layout.FigurePath].
type FigureOptions struct {
	// Dir defaults to [Layout.PlotPath].
	Dir string
	// Time formats the timestamp. Its ForPath field is always set and its
	// Format defaults to [pretty.TimeShortFull].
	Time pretty.TimeOptions
	// TimeSuffix appends the timestamp instead of prefixing it.
	TimeSuffix bool
}

// FigurePath returns a timestamped PNG path for a figure called title. An
// empty title is "Figure". "w/" in title becomes "with"; any other "/"
// returns [ErrInvalidTitle].
func (l *Layout) FigurePath(title string, opts FigureOptions) (string, error) {
	if title == "" {
		title = "Figure"
	}

	title = strings.ReplaceAll(title, "w/", "with")
	if strings.Contains(title, "/") {
		return "", fmt.Errorf("%w: %q contains %q", ErrInvalidTitle, title, "/")
	}

	topts := opts.Time
	topts.ForPath = true

	ts, err := pretty.Default().FormatTime(l.clock(), topts)
	if err != nil {
		return "", err
	}

	name := ts + "_" + title + ".png"
	if opts.TimeSuffix {
		name = title + ", " + ts + ".png"
	}

	dir := opts.Dir
	if dir == "" {
		dir = l.PlotPath
	}

	return filepath.Join(dir, name), nil
}

// SaveFigure writes fig to [Layout.FigurePath] and returns the path.
func (l *Layout) SaveFigure(fig Figure, title string, opts FigureOptions) (string, error) {
	path, err := l.FigurePath(title, opts)
	if err != nil {
		return "", err
	}

	err = fig.SaveFig(path, FigureDPI)
	if err != nil {
		return "", fmt.Errorf("save figure: %w", err)
	}

	l.log.Info("saved figure", slog.String("title", title), slog.String("path", path))

	return path, nil
}
