package launch

// FileSystem is the file-system capability the descriptor depends on.
// Implementations live outside this library; the descriptor only needs
// existence checks for initial filename resolution and for validating
// a custom working directory at materialization time.
type FileSystem interface {
	// FileExists reports whether path refers to an existing file.
	FileExists(path string) bool

	// DirectoryExists reports whether path refers to an existing directory.
	DirectoryExists(path string) bool
}
