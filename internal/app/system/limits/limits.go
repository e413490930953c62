// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for JSON request bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MaxTopicTitleLen is the maximum length of a topic title in runes.
	MaxTopicTitleLen = 200

	// MaxTopicBodyLen is the maximum length of a topic body in runes.
	MaxTopicBodyLen = 50_000

	// MaxCommentBodyLen is the maximum length of a comment body in runes.
	MaxCommentBodyLen = 10_000

	// MaxGroupNameLen is the maximum length of a group name in runes.
	MaxGroupNameLen = 100

	// MaxGroupDescriptionLen is the maximum length of a group description
	// in runes.
	MaxGroupDescriptionLen = 2_000
)
