package pipeline

// Callbacks surfaces progress to the consumer. Any field may be nil. Events
// fire from worker goroutines; consumers redispatch to their own context.
type Callbacks struct {
	// OnFileDownloaded fires once per finished artifact, standalone file
	// or assembled motion photo.
	OnFileDownloaded func(path string)
	// OnDownloadProgress carries coarse textual status.
	OnDownloadProgress func(status string)
	// OnDownloadProgressUpdate carries byte-level progress; total at or
	// below zero means unknown.
	OnDownloadProgressUpdate func(downloaded, total int64)
	// OnDownloadError reports one failed item; originalURL is always the
	// pre-transform URL the user would recognize.
	OnDownloadError func(message, originalURL string)
}

func (c Callbacks) fileDownloaded(path string) {
	if c.OnFileDownloaded != nil {
		c.OnFileDownloaded(path)
	}
}

func (c Callbacks) progress(status string) {
	if c.OnDownloadProgress != nil {
		c.OnDownloadProgress(status)
	}
}

func (c Callbacks) progressUpdate(downloaded, total int64) {
	if c.OnDownloadProgressUpdate != nil {
		c.OnDownloadProgressUpdate(downloaded, total)
	}
}

func (c Callbacks) downloadError(message, originalURL string) {
	if c.OnDownloadError != nil {
		c.OnDownloadError(message, originalURL)
	}
}
