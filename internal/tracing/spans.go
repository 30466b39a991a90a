package tracing

// Span attribute keys for engine and directory tracing.
// These constants define the semantic conventions for span attributes.
const (
	// Text attributes
	AttrTextLength = "text.length"
	AttrTextCursor = "text.cursor"

	// Tag attributes
	AttrTagCount = "tag.count"
	AttrTagID    = "tag.id"
	AttrTagName  = "tag.name"

	// Search attributes
	AttrSearchTrigger  = "search.trigger"
	AttrSearchQuery    = "search.query"
	AttrSearchStrategy = "search.strategy"

	// Directory attributes
	AttrDirectoryQuery   = "directory.query"
	AttrDirectoryID      = "directory.id"
	AttrDirectoryResults = "directory.results"

	// Error attributes
	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// Span names for the engine operations.
const (
	SpanObserve    = "engine.observe"
	SpanAddTag     = "engine.add_tag"
	SpanFormatTags = "engine.format_tags"
	SpanFormatted  = "engine.formatted"
)

// Span names for the directory operations.
const (
	SpanDirectorySearch = "directory.search"
	SpanDirectoryLookup = "directory.lookup"
)

// Event names for span events.
const (
	EventSearchStarted   = "search.started"
	EventSearchDismissed = "search.dismissed"
	EventTagTouched      = "tag.touched"
	EventTagRemoved      = "tag.removed"
	EventTextSettled     = "text.settled"
)
