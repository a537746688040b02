package constant

const (
	MAX_FILE_SIZE      = 4 * 1024 * 1024 // 4MB
	MAX_COMMENT_LENGTH = 2000
	MAX_NAME_LENGTH    = 80
	MAX_EMAIL_LENGTH   = 80
)
