package version

// Set by the build with -ldflags "-X .../pkg/version.Version=vX.Y.Z".
var (
	Version   = "dev"
	GitCommit = ""
)

func String() string {
	if GitCommit == "" {
		return Version
	}
	return Version + "+" + GitCommit
}
