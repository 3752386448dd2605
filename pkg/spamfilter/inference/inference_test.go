package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamfilter/internal/logging"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/memstore"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/storetest"
)

func trainedStore(t *testing.T) *memstore.Store {
	t.Helper()
	st := memstore.New()
	require.NoError(t, st.Save(context.Background(), storetest.Artifact(t, time.Now())))
	return st
}

func TestRunClassifies(t *testing.T) {
	var out bytes.Buffer
	code := Run(context.Background(), []string{"WIN a FREE prize!!! http://spam.example"}, trainedStore(t), &out, logging.Discard())
	require.Equal(t, 0, code)

	line := out.String()
	assert.Regexp(t, `^spam\|0\.\d+\n$`, line)
}

func TestRunLogsModelAge(t *testing.T) {
	st := memstore.New()
	a := storetest.Artifact(t, time.Now().Add(-2*time.Hour))
	require.NoError(t, st.Save(context.Background(), a))

	var out, logs bytes.Buffer
	log := logging.New("debug", "json", &logs)
	code := Run(context.Background(), []string{"see you at lunch"}, st, &out, logrus.NewEntry(log))
	require.Equal(t, 0, code)

	var entry map[string]any
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		if e["msg"] == "Model loaded" {
			entry = e
		}
	}
	require.NotNil(t, entry)
	assert.Equal(t, a.ID, entry["model"])
	age, err := time.ParseDuration(entry["model_age"].(string))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, age, 2*time.Hour)
}

func TestRunMissingArgument(t *testing.T) {
	var out bytes.Buffer
	code := Run(context.Background(), nil, trainedStore(t), &out, logging.Discard())
	assert.Equal(t, 1, code)
	assert.Equal(t, "error|0.0\n", out.String())
}

func TestRunMissingModel(t *testing.T) {
	var out bytes.Buffer
	code := Run(context.Background(), []string{"hello"}, memstore.New(), &out, logging.Discard())
	assert.Equal(t, 1, code)
	assert.Equal(t, "error|0.0\n", out.String())

	out.Reset()
	code = Run(context.Background(), []string{"hello"}, nil, &out, logging.Discard())
	assert.Equal(t, 1, code)
	assert.Equal(t, "error|0.0\n", out.String())
}

type brokenLoader struct{}

func (brokenLoader) Latest(ctx context.Context) (*model.Artifact, error) {
	return &model.Artifact{Version: model.FormatVersion}, nil
}

func TestRunInvalidArtifact(t *testing.T) {
	var out bytes.Buffer
	code := Run(context.Background(), []string{"hello"}, brokenLoader{}, &out, logging.Discard())
	assert.Equal(t, 1, code)
	assert.Equal(t, "error|0.0\n", out.String())
}

func TestRunEmptyMessage(t *testing.T) {
	var out bytes.Buffer
	code := Run(context.Background(), []string{""}, trainedStore(t), &out, logging.Discard())
	require.Equal(t, 0, code)
	assert.Regexp(t, `^(ham|spam)\|[01]\.\d+\n$`, out.String())
}

func TestFormatConfidence(t *testing.T) {
	assert.Equal(t, "1.0", FormatConfidence(1))
	assert.Equal(t, "0.0", FormatConfidence(0))
	assert.Equal(t, "0.975", FormatConfidence(0.975))
	assert.Equal(t, "0.5", FormatConfidence(0.5))
}
