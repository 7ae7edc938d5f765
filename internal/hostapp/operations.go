package hostapp

import "sort"

// Version codes of the host app update ladder.
const (
	VersionUpdate01 int32 = 235
	VersionUpdate02 int32 = 242
	VersionUpdate03 int32 = 269
	VersionUpdate04 int32 = 343
	VersionUpdate05 int32 = 344
	VersionUpdate06 int32 = 356
	VersionUpdate07 int32 = 357
	VersionUpdate08 int32 = 370
	VersionUpdate09 int32 = 380
	VersionUpdate10 int32 = 390
	VersionUpdate11 int32 = 530
	VersionUpdate12 int32 = 558
	VersionUpdate13 int32 = 602

	VersionGuiding      int32 = 243
	VersionPickLocation int32 = VersionUpdate01
)

// VersionGisAny admits every gis build.
const VersionGisAny int32 = 1

// Provider names under a flavor authority.
const (
	ProviderData        = "LocusDataProvider"
	ProviderMapTools    = "MapTools"
	PathData            = "data"
	PathItemPurchase    = "itemPurchaseState"
	PathMapPreview      = "mapPreview"
	PathTrack           = "track"
	PathWaypoint        = "waypoint"
	PathTrackRecProfile = "trackRecordProfileNames"
)

// Operation names one protocol call against the host app.
type Operation string

const (
	OpDisplayData            Operation = "display_data"
	OpDisplayDataSilently    Operation = "display_data_silently"
	OpRemoveDataSilently     Operation = "remove_data_silently"
	OpStartNavigation        Operation = "start_navigation"
	OpNavigateToAddress      Operation = "navigate_to_address"
	OpStartGuiding           Operation = "start_guiding"
	OpPickLocation           Operation = "pick_location"
	OpAddWmsMap              Operation = "add_wms_map"
	OpDisplayPointScreen     Operation = "display_point_screen"
	OpDisplayStoreItem       Operation = "display_store_item"
	OpTrackRecord            Operation = "track_record"
	OpTrackRecordAddWaypoint Operation = "track_record_add_waypoint"
	OpRefreshPeriodicUpdates Operation = "refresh_periodic_updates"
	OpGetAppInfo             Operation = "get_app_info"
	OpGetUpdateContainer     Operation = "get_update_container"
	OpGetPoint               Operation = "get_point"
	OpGetPointIDs            Operation = "get_point_ids"
	OpUpdatePoint            Operation = "update_point"
	OpGetTrack               Operation = "get_track"
	OpGetTrackRecordProfiles Operation = "get_track_record_profiles"
	OpGetMapPreview          Operation = "get_map_preview"
	OpGetItemPurchaseState   Operation = "get_item_purchase_state"
)

// Gate is the capability requirement of one operation.
// MinVersionGis == 0 restricts the operation to free and pro.
// Provider is empty for dispatch-only operations.
type Gate struct {
	MinVersion    int32
	MinVersionGis int32
	Provider      string
	Path          string
}

func (g Gate) Dispatch() bool { return g.Provider == "" }

// RequiredFor reports the minimum version for flavor, or 0 when the flavor
// is not allowed at all.
func (g Gate) RequiredFor(f Flavor) int32 {
	switch f {
	case FlavorFree, FlavorPro:
		return g.MinVersion
	case FlavorGis:
		return g.MinVersionGis
	default:
		return 0
	}
}

var gates = map[Operation]Gate{
	OpDisplayData:            {MinVersion: VersionUpdate01, MinVersionGis: VersionGisAny},
	OpDisplayDataSilently:    {MinVersion: VersionUpdate01, MinVersionGis: VersionGisAny},
	OpRemoveDataSilently:     {MinVersion: VersionUpdate02, MinVersionGis: VersionGisAny},
	OpStartNavigation:        {MinVersion: VersionUpdate01, MinVersionGis: VersionGisAny},
	OpNavigateToAddress:      {MinVersion: VersionUpdate08, MinVersionGis: VersionGisAny},
	OpStartGuiding:           {MinVersion: VersionGuiding, MinVersionGis: VersionGisAny},
	OpPickLocation:           {MinVersion: VersionPickLocation, MinVersionGis: VersionGisAny},
	OpAddWmsMap:              {MinVersion: VersionUpdate01, MinVersionGis: VersionGisAny},
	OpDisplayPointScreen:     {MinVersion: VersionUpdate07},
	OpDisplayStoreItem:       {MinVersion: VersionUpdate12},
	OpTrackRecord:            {MinVersion: VersionUpdate02},
	OpTrackRecordAddWaypoint: {MinVersion: VersionUpdate02},
	OpRefreshPeriodicUpdates: {MinVersion: VersionUpdate01},

	OpGetAppInfo:             {MinVersion: VersionUpdate13, MinVersionGis: VersionGisAny, Provider: ProviderData, Path: PathData},
	OpGetUpdateContainer:     {MinVersion: VersionUpdate13, MinVersionGis: VersionGisAny, Provider: ProviderData, Path: PathData},
	OpGetPoint:               {MinVersion: VersionUpdate01, Provider: ProviderData, Path: PathWaypoint},
	OpGetPointIDs:            {MinVersion: VersionUpdate03, Provider: ProviderData, Path: PathWaypoint},
	OpUpdatePoint:            {MinVersion: VersionUpdate01, Provider: ProviderData, Path: PathWaypoint},
	OpGetTrack:               {MinVersion: VersionUpdate10, Provider: ProviderData, Path: PathTrack},
	OpGetTrackRecordProfiles: {MinVersion: VersionUpdate09, MinVersionGis: VersionGisAny, Provider: ProviderData, Path: PathTrackRecProfile},
	OpGetMapPreview:          {MinVersion: VersionUpdate04, MinVersionGis: VersionGisAny, Provider: ProviderMapTools, Path: PathMapPreview},
	OpGetItemPurchaseState:   {MinVersion: VersionUpdate06, Provider: ProviderData, Path: PathItemPurchase},
}

// GateFor returns the gate registered for op.
func GateFor(op Operation) (Gate, bool) {
	g, ok := gates[op]
	return g, ok
}

// Operations lists every registered operation in name order.
func Operations() []Operation {
	out := make([]Operation, 0, len(gates))
	for op := range gates {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
