package ports

// PlatformProbe reports the host operating system and machine architecture.
type PlatformProbe interface {
	// OS returns the operating system name, e.g. "linux", "Darwin", "Windows".
	OS() string
	// Arch returns the raw machine architecture, e.g. "x86_64", "aarch64", "amd64".
	Arch() string
}
