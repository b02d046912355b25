// Package cdklogger attaches leveled messages to construct metadata, so
// operators see them during synth next to the construct they concern.
package cdklogger

import (
	"fmt"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// annotate renders the message, prefixing it with constructID unless the
// scope's path already ends in that id (the prefix would be redundant).
func annotate(scope constructs.Construct, constructID, format string, args []interface{}) *string {
	message := fmt.Sprintf(format, args...)

	if constructID != "" {
		path := *scope.Node().Path()
		if !strings.HasSuffix(path, "/"+constructID) && path != "/"+constructID {
			message = fmt.Sprintf("[%s] %s", constructID, message)
		}
	}

	return jsii.String(message)
}

// LogInfo adds an INFO message to the construct's metadata.
func LogInfo(scope constructs.Construct, constructID string, format string, args ...interface{}) {
	awscdk.Annotations_Of(scope).AddInfo(annotate(scope, constructID, format, args))
}

// LogWarning adds a WARNING message to the construct's metadata.
func LogWarning(scope constructs.Construct, constructID string, format string, args ...interface{}) {
	awscdk.Annotations_Of(scope).AddWarning(annotate(scope, constructID, format, args))
}

// LogError adds an ERROR message to the construct's metadata.
func LogError(scope constructs.Construct, constructID string, format string, args ...interface{}) {
	awscdk.Annotations_Of(scope).AddError(annotate(scope, constructID, format, args))
}
