package main

import (
	"fmt"
	"strconv"
	"time"

	"robonorm/internal/camera"
	"robonorm/internal/config"
	"robonorm/internal/dataset"
	"robonorm/internal/discover"
	"robonorm/internal/frames"
	"robonorm/internal/normalize"
)

const timeRounding = 10 * time.Millisecond

func scannerOptions(cfg *config.Config) (dataset.Options, error) {
	patterns, err := cfg.CompiledEpisodePatterns()
	if err != nil {
		return dataset.Options{}, fmt.Errorf("compile episode patterns: %w", err)
	}
	return dataset.Options{
		Tasks:       cfg.Scan.Tasks,
		Workers:     cfg.Scan.Workers,
		TaskTimeout: time.Duration(cfg.Scan.TaskTimeoutSeconds) * time.Second,
		Builder: normalize.Options{
			Detection: camera.Options{
				Enabled:       cfg.Detection.AutoDetect,
				FilePattern:   cfg.Detection.FilePattern,
				Extensions:    cfg.Frames.ImageExtensions,
				LabelTemplate: cfg.Detection.CameraNaming,
				MaxCameras:    cfg.Detection.MaxCameras,
				SampleSize:    cfg.Detection.SampleSize,
			},
			Discovery: discover.Options{
				Patterns:           patterns,
				MaxDepth:           cfg.Discovery.MaxSearchDepth,
				MetadataExtensions: cfg.Discovery.MetadataExtensions,
			},
			Frames:         frames.Options{Extensions: cfg.Frames.ImageExtensions},
			ImageSubdir:    cfg.Frames.ImageSubdir,
			EpisodeWorkers: cfg.Scan.EpisodeWorkers,
		},
	}, nil
}

// taskView is the JSON shape for one task outcome.
type taskView struct {
	Name        string   `json:"name"`
	Instruction string   `json:"instruction"`
	Status      string   `json:"status"`
	Fallback    bool     `json:"fallback"`
	Cameras     int      `json:"cameras"`
	Episodes    int      `json:"episodes"`
	Frames      int      `json:"frames"`
	Warnings    []string `json:"warnings,omitempty"`
	Error       string   `json:"error,omitempty"`
	DurationMS  int64    `json:"duration_ms"`
}

// scanView is the JSON shape for one scan run.
type scanView struct {
	RunID       string     `json:"run_id"`
	DatasetRoot string     `json:"dataset_root"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  time.Time  `json:"finished_at"`
	Tasks       []taskView `json:"tasks"`
}

func newScanView(result *dataset.ScanResult) scanView {
	view := scanView{
		RunID:       result.RunID,
		DatasetRoot: result.DatasetRoot,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
	}
	for _, task := range result.Tasks {
		view.Tasks = append(view.Tasks, newTaskView(task))
	}
	return view
}

func newTaskView(task dataset.TaskSummary) taskView {
	view := taskView{
		Name:        task.Name,
		Instruction: task.Instruction,
		DurationMS:  task.Duration.Milliseconds(),
	}
	if task.Err != nil {
		view.Error = task.Err.Error()
	}
	if task.Result != nil {
		view.Status = string(task.Result.Status)
		view.Fallback = task.Result.Fallback
		view.Cameras = task.Result.Manifest.Count()
		view.Episodes = len(task.Result.Episodes)
		for _, ep := range task.Result.Episodes {
			view.Frames += ep.TotalFrames()
		}
		for _, warning := range task.Result.Report.Warnings {
			view.Warnings = append(view.Warnings, warning.String())
		}
	}
	return view
}

func scanTableRows(result *dataset.ScanResult) [][]string {
	rows := make([][]string, 0, len(result.Tasks))
	for _, task := range result.Tasks {
		view := newTaskView(task)
		status := view.Status
		if view.Error != "" {
			status = "failed"
		}
		rows = append(rows, []string{
			view.Name,
			view.Instruction,
			status,
			strconv.Itoa(view.Cameras),
			strconv.Itoa(view.Episodes),
			strconv.Itoa(view.Frames),
			strconv.Itoa(len(view.Warnings)),
		})
	}
	return rows
}

var scanColumns = []column{
	{title: "Task"},
	{title: "Instruction"},
	{title: "Status"},
	{title: "Cameras", count: true},
	{title: "Episodes", count: true},
	{title: "Frames", count: true},
	{title: "Warnings", count: true},
}
