//go:generate go run ./script/buildinfo-extractor.go .
//
// Generated: not generated, run go generate ./buildinfo
//
package buildinfo

var VERSION_INFO = "dev"

func BuildInfo() string {
	return VERSION_INFO
}
