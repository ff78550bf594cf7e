// Package project enforces a directory structure for machine learning
// projects and loads project-level settings.
//
// A [Layout] derives the dataset, model, plot and eval paths from a base
// path and creates the requested directories:
//
//	l, err := project.NewLayout(project.LayoutOptions{
//	    BasePath:   "/work",
//	    ProjectDir: "ner",
//	    DatasetDir: "data",
//	    ModelDir:   "models",
//	    MakeDirs:   project.AllDirs(),
//	})
//
//	path, err := l.SaveFigure(fig, "F1 w/ augmentation", project.FigureOptions{})
//
// [LoadSettings] reads JSON, YAML or TOML files and [Settings.Get] looks up
// dotted keys.
package project
