package nodes

// Graph node keys.
const (
	NodeRemoteGeneration = "RemoteGeneration"
	NodeFallback         = "Fallback"
	NodeActionDeriver    = "ActionDeriver"
)
