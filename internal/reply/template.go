package reply

// Placeholders substituted into replyTemplate.
const (
	originalPlaceholder   = "{original}"
	albumPlaceholder      = "{album}"
	screenshotPlaceholder = "{screenshot}"
	quotePlaceholder      = "{quote}"
)

const replyTemplate = `Craigslist ads get deleted once they expire, so here is a copy of the one linked above.

[original post]({original}) | [imgur album]({album}) | [screenshot]({screenshot})

{quote}

---

^(I am a bot. The ad text is quoted above and its images are mirrored to imgur.)`
