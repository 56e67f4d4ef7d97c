package filecsv_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"

	"lently/domain/model"
	"lently/infrastructure/filecsv"
)

func TestWriteComments(t *testing.T) {
	comments := []model.Comment{
		{
			YouTubeCommentID: "c1",
			Author:           "viewer",
			Text:             "line with, comma and \"quotes\"",
			PublishedAt:      "2026-08-01T10:00:00Z",
			LikeCount:        7,
			Category:         model.CategoryPraise,
			SentimentScore:   0.75,
			SentimentLabel:   "positive",
			ToxicityScore:    0.02,
		},
	}

	var buf bytes.Buffer
	err := filecsv.WriteComments(&buf, comments)
	assert.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "comment_id", records[0][0])
	assert.Equal(t, "c1", records[1][0])
	assert.Equal(t, `line with, comma and "quotes"`, records[1][2])
	assert.Equal(t, "0.75", records[1][6])
}

func TestWriteComments_EmptyStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	err := filecsv.WriteComments(&buf, nil)
	assert.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}
