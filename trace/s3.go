package trace

import (
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
)

// RegisterS3 wires the "s3://" scheme into github.com/grailbio/base/file so
// Open and Create transparently accept S3 paths alongside local ones. The
// CLI calls this once at startup; package trace itself never assumes S3
// is available, since most tests run entirely against local paths.
func RegisterS3() {
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}
