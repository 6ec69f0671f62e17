package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSegments() []Segment {
	return []Segment{
		{
			SegmentTitle:          "Neural Networks",
			SegmentStartTimestamp: 30,
			SegmentEndTimestamp:   150,
			Transcript: []Entry{
				{StartTimestamp: 30, EndTimestamp: 60, Text: "  A neural network is a stack of   layers. "},
				{StartTimestamp: 60, EndTimestamp: 90, Text: ""},
				{StartTimestamp: 90, EndTimestamp: 150, Text: "It is important to normalize your inputs first!"},
			},
		},
		{
			SegmentTitle:          "Training",
			SegmentStartTimestamp: 150,
			SegmentEndTimestamp:   390,
			Transcript: []Entry{
				{StartTimestamp: 150, EndTimestamp: 390, Text: "We will now look at how training proceeds over many epochs."},
			},
		},
	}
}

func TestProcess(t *testing.T) {
	p := Process(sampleSegments())

	require.Len(t, p.Segments, 2)
	assert.Equal(t, "A neural network is a stack of layers. It is important to normalize your inputs first!", p.Segments[0].Text)
	assert.InDelta(t, 2.0, p.Segments[0].DurationMinutes, 1e-9)
	assert.InDelta(t, 6.0, p.TotalDurationMinutes, 1e-9)
	assert.Equal(t, []string{"Neural Networks", "Training"}, p.KeyTopics)
	assert.Equal(t, "## Neural Networks\n"+p.Segments[0].Text+"\n\n## Training\n"+p.Segments[1].Text, p.FullText)
	assert.Equal(t, []string{
		"A neural network is a stack of layers",
		"It is important to normalize your inputs first",
	}, p.Segments[0].KeyPoints)
	assert.Empty(t, p.Segments[1].KeyPoints)
}

func TestProcess_Empty(t *testing.T) {
	p := Process(nil)
	assert.Zero(t, p.TotalDurationMinutes)
	assert.Empty(t, p.Segments)
	assert.Empty(t, p.FullText)
}

func TestKeyPoints(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "short sentences dropped",
			text: "Gradient is key. Short one is.",
		},
		{
			name: "emphasis without definition",
			text: "Remember to check your learning rate each time.",
			want: []string{"Remember to check your learning rate each time"},
		},
		{
			name: "definition word boundary",
			text: "This sentence mentions island twice, island.",
		},
		{
			name: "duplicates kept once",
			text: "Overfitting means memorizing the data. Overfitting means memorizing the data.",
			want: []string{"Overfitting means memorizing the data"},
		},
		{
			name: "capped at five",
			text: "The main idea number one goes here. The main idea number two goes here. The main idea number three here. The main idea number four goes here. The main idea number five goes here. The main idea number six goes here.",
			want: []string{
				"The main idea number one goes here",
				"The main idea number two goes here",
				"The main idea number three here",
				"The main idea number four goes here",
				"The main idea number five goes here",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyPoints(tt.text))
		})
	}
}

func TestKeyPoints_Truncates(t *testing.T) {
	long := "Regularization is " + strings.Repeat("very ", 50) + "useful"
	points := KeyPoints(long)
	require.Len(t, points, 1)
	assert.Len(t, []rune(points[0]), 150)
}

func TestBuildPrompt_Target(t *testing.T) {
	p := Process(sampleSegments())
	out := BuildPrompt(p, "neural networks")

	topics := strings.Index(out, "LECTURE TOPICS:\n1. Neural Networks\n2. Training")
	focus := strings.Index(out, "FOCUS SEGMENT: Neural Networks")
	keyPoints := strings.Index(out, "KEY POINTS TO COVER:\n- A neural network is a stack of layers")
	instructions := strings.Index(out, "Create 3-5 questions")

	require.True(t, topics >= 0 && focus >= 0 && keyPoints >= 0 && instructions >= 0, out)
	assert.True(t, topics < focus && focus < keyPoints && keyPoints < instructions)
	assert.NotContains(t, out, "many epochs")
}

func TestBuildPrompt_AllSegments(t *testing.T) {
	p := Process(sampleSegments())
	for _, target := range []string{"", "Unknown Segment"} {
		out := BuildPrompt(p, target)
		assert.Contains(t, out, "LECTURE CONTENT:")
		assert.Contains(t, out, "### Neural Networks\n")
		assert.Contains(t, out, "### Training\nWe will now look")
		assert.NotContains(t, out, "FOCUS SEGMENT")
		assert.True(t, strings.HasSuffix(out, "Remember: Output ONLY valid JSON, no markdown formatting.\n"))
	}
}

func TestFromPlainText(t *testing.T) {
	p := FromPlainText("Entropy is a measure of uncertainty in a distribution.", "")
	require.Len(t, p.Segments, 1)
	assert.Equal(t, DefaultTitle, p.Segments[0].Title)
	assert.Equal(t, []string{DefaultTitle}, p.KeyTopics)
	assert.Equal(t, []string{"Entropy is a measure of uncertainty in a distribution"}, p.Segments[0].KeyPoints)
	assert.Zero(t, p.TotalDurationMinutes)
}

func TestFlatten(t *testing.T) {
	got := Flatten(sampleSegments())
	assert.True(t, strings.HasPrefix(got, "## Neural Networks\n  A neural network"))
	assert.Contains(t, got, "\n\n## Training\nWe will now look")
}
