package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_Hashtags(t *testing.T) {
	got := Extract("loving the view #sunset #Beach")
	assert.Equal(t, []string{"sunset", "beach", "loving", "view"}, got)
}

func TestExtract_KeywordsSkipStopwords(t *testing.T) {
	got := Extract("this would have been about golang concurrency")
	assert.Equal(t, []string{"golang", "concurrency"}, got)
}

func TestExtract_ShortWordsDropped(t *testing.T) {
	got := Extract("go is ok golang")
	assert.Equal(t, []string{"golang"}, got)
}

func TestExtract_ShortWordsDroppedByRuneCount(t *testing.T) {
	// Two-letter words are short regardless of byte width.
	got := Extract("да дом")
	assert.Equal(t, []string{"дом"}, got)
}

func TestExtract_Deduplicates(t *testing.T) {
	got := Extract("#coffee coffee Coffee #coffee")
	assert.Equal(t, []string{"coffee"}, got)
}

func TestExtract_PunctuationTrimmed(t *testing.T) {
	got := Extract("shipped #release! finally, done.")
	assert.Equal(t, []string{"release", "shipped", "finally", "done"}, got)
}

func TestExtract_MentionsAreNotTags(t *testing.T) {
	got := Extract("thanks @alice for reviewing")
	assert.Equal(t, []string{"thanks", "reviewing"}, got)
}

func TestExtract_Empty(t *testing.T) {
	assert.Nil(t, Extract(""))
	assert.Empty(t, Extract("a is to be"))
}

func TestMentions_Basic(t *testing.T) {
	got := Mentions("ping @alice and @Bob_42, please")
	assert.Equal(t, []string{"alice", "Bob_42"}, got)
}

func TestMentions_DeduplicatesCaseInsensitively(t *testing.T) {
	got := Mentions("@Alice @alice @ALICE")
	assert.Equal(t, []string{"Alice"}, got)
}

func TestMentions_BareAtIgnored(t *testing.T) {
	assert.Empty(t, Mentions("meet @ noon"))
	assert.Nil(t, Mentions(""))
}
