// Package assets attaches artist image folders to mural records.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-murals/internal/service"
)

var imageExts = []string{".jpg", ".jpeg", ".png", ".webp"}

// Mapping ties asset folders to mural ids. A folder listing several ids has
// its images split evenly between them in order.
type Mapping struct {
	URLPrefix string              `yaml:"urlPrefix"`
	Folders   map[string][]string `yaml:"folders"`
}

// LoadMapping reads a YAML mapping file.
func LoadMapping(file string) (Mapping, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Mapping{}, fmt.Errorf("reading mapping: %w", err)
	}
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Mapping{}, fmt.Errorf("parsing mapping: %w", err)
	}
	if m.URLPrefix == "" {
		m.URLPrefix = "/assets"
	}
	return m, nil
}

// Outcome is the result for one mural.
type Outcome struct {
	Folder  string
	MuralID string
	Images  int
	Problem string
}

// Match scans each mapped folder in fsys and replaces the images of the
// matching murals. Murals not named in the mapping are left alone. The input
// slice is not modified.
func Match(fsys fs.FS, mapping Mapping, murals []service.Mural) ([]service.Mural, []Outcome) {
	out := make([]service.Mural, len(murals))
	for i, m := range murals {
		out[i] = m.Clone()
	}
	index := func(id string) int {
		return slices.IndexFunc(out, func(m service.Mural) bool { return m.ID == id })
	}

	folders := make([]string, 0, len(mapping.Folders))
	for f := range mapping.Folders {
		folders = append(folders, f)
	}
	slices.Sort(folders)

	var outcomes []Outcome
	for _, folder := range folders {
		ids := mapping.Folders[folder]
		files, err := imageFiles(fsys, folder)
		if err != nil {
			outcomes = append(outcomes, Outcome{Folder: folder, Problem: "folder not found"})
			continue
		}
		if len(files) == 0 {
			outcomes = append(outcomes, Outcome{Folder: folder, Problem: "no images found"})
			continue
		}

		for i, chunk := range distribute(files, len(ids)) {
			id := ids[i]
			if len(chunk) == 0 {
				continue
			}
			idx := index(id)
			if idx < 0 {
				outcomes = append(outcomes, Outcome{Folder: folder, MuralID: id, Problem: "mural not found"})
				continue
			}
			out[idx].Images = buildImages(mapping.URLPrefix, folder, chunk)
			outcomes = append(outcomes, Outcome{Folder: folder, MuralID: id, Images: len(out[idx].Images)})
		}
	}
	return out, outcomes
}

// distribute splits files into n consecutive chunks of ceil(len/n).
func distribute(files []string, n int) [][]string {
	if n <= 0 {
		return nil
	}
	per := (len(files) + n - 1) / n
	chunks := make([][]string, n)
	for i := range chunks {
		start := min(i*per, len(files))
		end := min(start+per, len(files))
		chunks[i] = files[start:end]
	}
	return chunks
}

func imageFiles(fsys fs.FS, folder string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, folder)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(e.Name()))
		if slices.Contains(imageExts, ext) {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}

func buildImages(prefix, folder string, files []string) []service.Image {
	if len(files) > service.MaxImages {
		files = files[:service.MaxImages]
	}
	label := folderLabel(folder)
	images := make([]service.Image, len(files))
	for i, f := range files {
		images[i] = service.Image{
			URL:         strings.TrimRight(prefix, "/") + "/" + folder + "/" + f,
			Description: fmt.Sprintf("%s - Image %d", label, i+1),
			IsPrimary:   i == 0,
		}
	}
	return images
}

// folderLabel returns the parenthesized part of "artist (Title)", or "Mural".
func folderLabel(folder string) string {
	_, after, ok := strings.Cut(folder, "(")
	if !ok {
		return "Mural"
	}
	label := strings.Replace(after, ")", "", 1)
	if label == "" {
		return "Mural"
	}
	return label
}

// ErrNoChanges is returned by Run when no folder matched.
var ErrNoChanges = errors.New("no murals updated")

// Run matches assetsDir against the mural file and writes the result back.
func Run(svc *service.MuralService, assetsDir string, mapping Mapping) ([]Outcome, error) {
	murals, err := svc.List()
	if err != nil {
		return nil, err
	}
	updated, outcomes := Match(os.DirFS(assetsDir), mapping, murals)

	changed := 0
	for _, o := range outcomes {
		entry := log.WithFields(log.Fields{"folder": o.Folder, "mural": o.MuralID})
		if o.Problem != "" {
			entry.Warn(o.Problem)
			continue
		}
		changed++
		entry.WithField("images", o.Images).Info("updated mural images")
	}
	if changed == 0 {
		return outcomes, ErrNoChanges
	}
	if _, err := svc.ReplaceAll(updated); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}
