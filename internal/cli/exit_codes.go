package cli

// Exit codes for the relcut CLI
const (
	// ExitSuccess indicates the release completed or the dry-run preview printed
	ExitSuccess = 0

	// ExitFailure indicates any failure, including a user abort
	ExitFailure = 1
)
