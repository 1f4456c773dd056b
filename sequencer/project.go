package sequencer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	saveExt        = ".yaml"
	timestampFmt   = "2006-01-02_15-04-05"
	timestampChars = len(timestampFmt)
)

// Snapshot is the saved form of a session's data tree. Mode, focus and
// selection are not saved.
type Snapshot struct {
	ID     uuid.UUID       `yaml:"id"`
	Saved  time.Time       `yaml:"saved"`
	Tracks []TrackSnapshot `yaml:"tracks"`
}

type TrackSnapshot struct {
	Index     int                `yaml:"index"`
	Sequences []SequenceSnapshot `yaml:"sequences,omitempty"`
}

type SequenceSnapshot struct {
	Slot   int             `yaml:"slot"`
	Stages []StageSnapshot `yaml:"stages,omitempty"`
}

type StageSnapshot struct {
	Position   int  `yaml:"position"`
	Duration   int  `yaml:"duration"`
	Width      int  `yaml:"width"`
	EndOfStage bool `yaml:"end_of_stage,omitempty"`
}

// TakeSnapshot copies the sequences and stages that exist in s
func TakeSnapshot(s *Session) *Snapshot {
	snap := &Snapshot{ID: uuid.New(), Saved: time.Now()}
	for _, t := range s.tracks {
		ts := TrackSnapshot{Index: t.Index()}
		for slot := 0; slot < NumSequences; slot++ {
			seq := t.Sequence(slot)
			if seq == nil {
				continue
			}
			qs := SequenceSnapshot{Slot: slot}
			for _, st := range seq.Stages() {
				qs.Stages = append(qs.Stages, StageSnapshot{
					Position:   st.Position(),
					Duration:   st.Duration(),
					Width:      st.Width(),
					EndOfStage: st.EndOfStage(),
				})
			}
			ts.Sequences = append(ts.Sequences, qs)
		}
		snap.Tracks = append(snap.Tracks, ts)
	}
	return snap
}

// Restore builds a fresh play-mode session from the snapshot. Entries
// outside the grid are skipped and parameters are clamped again.
func (snap *Snapshot) Restore() *Session {
	s := NewSession()
	for _, ts := range snap.Tracks {
		t := s.Track(ts.Index)
		if t == nil {
			continue
		}
		for _, qs := range ts.Sequences {
			seq := t.GetSequence(qs.Slot)
			if seq == nil {
				continue
			}
			for _, ss := range qs.Stages {
				st := seq.GetStage(ss.Position)
				if st == nil {
					continue
				}
				st.SetDuration(ss.Duration)
				st.SetWidth(ss.Width)
				st.SetEndOfStage(ss.EndOfStage)
			}
		}
	}
	return s
}

// SaveInfo represents a saved project file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// ProjectsDir returns the projects directory path
func ProjectsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "transit", "projects"), nil
}

// ProjectDir returns the path to a specific project
func ProjectDir(projectName string) (string, error) {
	base, err := ProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, projectName), nil
}

// ListProjects returns all project folder names
func ListProjects() ([]string, error) {
	dir, err := ProjectsDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	projects := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}

	sort.Strings(projects)
	return projects, nil
}

// ListSaves returns timestamped saves for a project, newest first
func ListSaves(projectName string) ([]SaveInfo, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	saves := []SaveInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, ok := parseSaveName(entry.Name())
		if !ok {
			continue
		}
		saves = append(saves, info)
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})

	return saves, nil
}

// parseSaveName reads 2024-01-15_14-30-00.yaml or 2024-01-15_14-30-00_name.yaml
func parseSaveName(filename string) (SaveInfo, bool) {
	if !strings.HasSuffix(filename, saveExt) {
		return SaveInfo{}, false
	}
	base := strings.TrimSuffix(filename, saveExt)
	if len(base) < timestampChars {
		return SaveInfo{}, false
	}
	ts, err := time.ParseInLocation(timestampFmt, base[:timestampChars], time.Local)
	if err != nil {
		return SaveInfo{}, false
	}
	name := ""
	if len(base) > timestampChars+1 && base[timestampChars] == '_' {
		name = base[timestampChars+1:]
	}
	return SaveInfo{Filename: filename, Name: name, Timestamp: ts}, true
}

// SaveProject writes a snapshot of s into the project folder and returns
// the file name. An empty project name saves to "untitled".
func SaveProject(projectName, saveName string, s *Session) (string, error) {
	if projectName == "" {
		projectName = "untitled"
	}

	dir, err := ProjectDir(projectName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create project %s: %w", projectName, err)
	}

	snap := TakeSnapshot(s)
	data, err := yaml.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	filename := snap.Saved.Format(timestampFmt)
	if saveName != "" {
		filename += "_" + sanitizeFilename(saveName)
	}
	filename += saveExt

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return filename, nil
}

// LoadProject reads a save (or the most recent if filename is empty) and
// returns the restored session
func LoadProject(projectName, filename string) (*Session, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return nil, err
	}

	if filename == "" {
		saves, err := ListSaves(projectName)
		if err != nil || len(saves) == 0 {
			return nil, fmt.Errorf("no saves found in project %s", projectName)
		}
		filename = saves[0].Filename
	}

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return snap.Restore(), nil
}

// CreateProject creates a new empty project folder
func CreateProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// DeleteSave deletes a specific save file
func DeleteSave(projectName, filename string) error {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(dir, filename))
}

// RenameSave changes the name part of a save, keeping its timestamp
func RenameSave(projectName, oldFilename, newName string) (string, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return "", err
	}

	info, ok := parseSaveName(oldFilename)
	if !ok {
		return "", fmt.Errorf("invalid save filename %q", oldFilename)
	}

	newFilename := info.Timestamp.Format(timestampFmt)
	if newName != "" {
		newFilename += "_" + sanitizeFilename(newName)
	}
	newFilename += saveExt

	if err := os.Rename(filepath.Join(dir, oldFilename), filepath.Join(dir, newFilename)); err != nil {
		return "", err
	}
	return newFilename, nil
}

// sanitizeFilename removes/replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	r := strings.NewReplacer(
		" ", "-", "/", "-", "\\", "-", ":", "-",
		"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	)
	return r.Replace(name)
}

// DeleteProject deletes entire project folder
func DeleteProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// RenameProject renames a project folder
func RenameProject(oldName, newName string) error {
	oldDir, err := ProjectDir(oldName)
	if err != nil {
		return err
	}
	newDir, err := ProjectDir(newName)
	if err != nil {
		return err
	}
	return os.Rename(oldDir, newDir)
}
