package model

// RemoteFileState is the current state of one file path on the remote host,
// fetched fresh on every push attempt. It is never cached across pushes; a
// stale SHA would turn an update into a spurious conflict.
type RemoteFileState struct {
	Exists  bool
	SHA     string
	Content []byte
}

// FilePut describes one create-or-update write. SHA is empty on create and
// carries the current file SHA on update.
type FilePut struct {
	Message string
	Content []byte
	Branch  string
	SHA     string
}
