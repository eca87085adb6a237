package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"vet-dictation-go/internal/gemini"
	"vet-dictation-go/internal/logger"
	"vet-dictation-go/internal/types"
)

// Client turns one local audio file into a structured Extraction:
// upload, wait for readiness, generate against the fixed prompt,
// normalize and parse the response.
type Client struct {
	remote *gemini.Client
	log    *logrus.Entry
}

func NewClient(remote *gemini.Client) *Client {
	return &Client{
		remote: remote,
		log:    logger.Component("extract"),
	}
}

// Extract runs one attempt for one file. onStage, when non-nil, receives
// coarse progress transitions. The remote copy of the audio is deleted
// on every exit path once the upload succeeded.
func (c *Client) Extract(ctx context.Context, path string, onStage func(types.Status)) (types.Extraction, error) {
	log := c.log.WithField("file", filepath.Base(path))

	stage(onStage, types.StatusUploading)
	handle, err := c.remote.UploadAudio(ctx, path)
	if err != nil {
		log.WithError(err).Warn("upload failed")
		return types.Extraction{}, err
	}
	defer func() {
		if err := c.remote.DeleteFile(ctx, handle.Name); err != nil {
			log.WithError(err).Debug("remote cleanup failed")
		}
	}()

	stage(onStage, types.StatusWaitingRemote)
	ready, err := c.remote.WaitActive(ctx, handle.Name)
	if err != nil {
		log.WithError(err).Warn("remote processing failed")
		return types.Extraction{}, err
	}

	raw, err := c.remote.GenerateContent(ctx, Prompt, ready)
	if err != nil {
		log.WithError(err).Warn("generation failed")
		return types.Extraction{}, err
	}

	stage(onStage, types.StatusParsing)
	ex, err := ParseExtraction(Normalize(raw))
	if err != nil {
		log.WithError(err).WithField("raw_len", len(raw)).Warn("response did not parse")
		return types.Extraction{}, err
	}
	return ex, nil
}

func stage(onStage func(types.Status), s types.Status) {
	if onStage != nil {
		onStage(s)
	}
}

// ParseExtraction decodes a normalized response into the four-field
// shape. Absent keys stay empty; the assembler applies defaults.
func ParseExtraction(clean string) (types.Extraction, error) {
	if strings.TrimSpace(clean) == "" {
		return types.Extraction{}, fmt.Errorf("%w: no JSON object in response", types.ErrMalformedResponse)
	}

	dec := json.NewDecoder(strings.NewReader(clean))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return types.Extraction{}, fmt.Errorf("%w: %v", types.ErrMalformedResponse, err)
	}
	if err := validateShape(anyValue(m)); err != nil {
		return types.Extraction{}, fmt.Errorf("%w: %s", types.ErrMalformedResponse, shapeErrorSummary(err))
	}

	return types.Extraction{
		PatientID:      stringField(m, "patient_id"),
		PatientName:    stringField(m, "patient_name"),
		PatientDose:    stringField(m, "patient_dose"),
		NotesForDoctor: stringField(m, "notes_for_doctor"),
	}, nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// anyValue re-decodes json.Number values into plain numbers so the
// schema validator sees standard JSON types.
func anyValue(m map[string]any) any {
	b, _ := json.Marshal(m)
	var v any
	_ = json.Unmarshal(b, &v)
	return v
}
