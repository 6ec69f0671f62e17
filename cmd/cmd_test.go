package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHivit700/InteLect/internal/config"
	"github.com/SHivit700/InteLect/internal/quiz"
	"github.com/SHivit700/InteLect/internal/transcript"
)

func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
		"INTELECT_ANTHROPIC_API_KEY", "INTELECT_DB", "INTELECT_TRACING",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("INTELECT_LLM_PROVIDER", "mock")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores defaults, since cobra keeps flag values between
// Execute calls on the same command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "intelect")
}

func TestJudgeCommand_MCQ(t *testing.T) {
	isolate(t)
	out, err := execute(t, "--db", "off", "judge",
		"--type", "mcq", "--question", "Which layer?", "--correct", "B", "--answer", "b",
		"--options", "A=Input,B=Hidden,C=Output,D=None")
	require.NoError(t, err)

	var resp struct {
		IsCorrect bool   `json:"is_correct"`
		Feedback  string `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.IsCorrect)
	assert.Equal(t, "Correct!", resp.Feedback)
}

func TestJudgeCommand_InvalidType(t *testing.T) {
	isolate(t)
	_, err := execute(t, "--db", "off", "judge",
		"--type", "essay", "--question", "Q", "--correct", "x", "--answer", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question_type")
}

func TestRecapCommand_AllCorrect(t *testing.T) {
	isolate(t)
	p := writeTemp(t, "recap.json", `{
		"video_id": "vid1",
		"segments": [{"segment_number": 1, "segment_title": "Intro", "start_timestamp": 0, "end_timestamp": 60}],
		"answers": [{"question_number": 1, "question_text": "Q", "user_answer": "a", "correct_answer": "a", "is_correct": true}]
	}`)
	out, err := execute(t, "--db", "off", "recap", "--file", p)
	require.NoError(t, err)

	var resp struct {
		VideoID        string `json:"video_id"`
		Summary        string `json:"summary"`
		TotalQuestions int    `json:"total_questions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "vid1", resp.VideoID)
	assert.Equal(t, 1, resp.TotalQuestions)
	assert.Contains(t, resp.Summary, "Excellent work")
}

func TestGenerateCommand_RequiresOneInput(t *testing.T) {
	isolate(t)
	_, err := execute(t, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--file or --segments")
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []quiz.Option
		wantErr bool
	}{
		{name: "none", in: nil, want: nil},
		{
			name: "trims and upper-cases ids",
			in:   []string{"a= Input ", "B=Hidden"},
			want: []quiz.Option{{ID: "A", Text: "Input"}, {ID: "B", Text: "Hidden"}},
		},
		{name: "missing separator", in: []string{"A Input"}, wantErr: true},
		{name: "blank id", in: []string{"=Input"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOptions(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectSegment(t *testing.T) {
	one, two := 1, 2
	segs := []transcript.Segment{
		{SegmentNumber: &one, SegmentTitle: "Intro"},
		{SegmentNumber: &two, SegmentTitle: "Backprop"},
		{SegmentTitle: "Untitled"},
	}

	got := selectSegment(segs, 2)
	require.Len(t, got, 1)
	assert.Equal(t, "Backprop", got[0].SegmentTitle)

	assert.Len(t, selectSegment(segs, 9), 3)
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv("INTELECT_DB", "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg := config.Default()
	cfg.DB.Path = "off"
	p, err := resolveDBPath(cfg)
	require.NoError(t, err)
	assert.Empty(t, p)

	cfg.DB.Path = ""
	p, err = resolveDBPath(cfg)
	require.NoError(t, err)
	assert.Equal(t, "intelect.db", filepath.Base(p))

	explicit := filepath.Join(t.TempDir(), "nested", "events.db")
	cfg.DB.Path = explicit
	p, err = resolveDBPath(cfg)
	require.NoError(t, err)
	assert.Equal(t, explicit, p)
	assert.DirExists(t, filepath.Dir(explicit))
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))
	assert.Nil(t, optional(0))
	require.NotNil(t, optional(3))
	assert.Equal(t, 3, *optional(3))
}
