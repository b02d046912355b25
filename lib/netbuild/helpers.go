package netbuild

import (
	"fmt"
	"strings"

	"github.com/accelera/lznet/config/netconfig"
)

// sanitizeID strips characters CDK construct ids cannot carry.
func sanitizeID(name string) string {
	replacer := strings.NewReplacer("-", "", "_", "", "/", "", ".", "", " ", "")
	return replacer.Replace(name)
}

// fmtID renders a CDK construct id from mixed name parts.
func fmtID(prefix string, parts ...interface{}) string {
	id := prefix
	for _, part := range parts {
		id += sanitizeID(fmt.Sprintf("%v", part))
	}
	return id
}

func netconfigShareAccounts(ctx *Context, targets netconfig.ShareTargets) []string {
	return netconfig.ShareAccounts(targets, ctx.OuAccounts)
}
