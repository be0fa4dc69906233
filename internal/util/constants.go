package util

// Storage backends accepted by storage.type.
const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// AIArchivePrefix is the object-storage folder for raw AI output that was
// replaced by fallback content.
const AIArchivePrefix = "ai-archive/"
