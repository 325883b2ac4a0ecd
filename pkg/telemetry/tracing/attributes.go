package tracing

import (
	"go.opentelemetry.io/otel/attribute"
)

// Span attribute keys. Values are set with the typed helpers on
// attribute.Key, for example AttrTool.String("deploy").
const (
	AttrTool  = attribute.Key("trackerctl.tool")
	AttrRunID = attribute.Key("trackerctl.run_id")
	AttrHost  = attribute.Key("trackerctl.host")

	AttrRemoteCommand = attribute.Key("trackerctl.remote.command")
	AttrExitStatus    = attribute.Key("trackerctl.remote.exit_status")

	AttrRelease      = attribute.Key("trackerctl.git.release")
	AttrReleaseMoved = attribute.Key("trackerctl.git.moved")

	AttrRemotePath = attribute.Key("trackerctl.transfer.remote_path")
	AttrLocalPath  = attribute.Key("trackerctl.transfer.local_path")
	AttrBytes      = attribute.Key("trackerctl.transfer.bytes")
	AttrFiles      = attribute.Key("trackerctl.transfer.files")

	AttrCollection = attribute.Key("trackerctl.export.collection")
	AttrDocuments  = attribute.Key("trackerctl.export.documents")

	AttrHTTPMethod     = attribute.Key("http.request.method")
	AttrHTTPURL        = attribute.Key("url.full")
	AttrHTTPStatusCode = attribute.Key("http.response.status_code")
)
