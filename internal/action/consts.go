package action

// Host action identifiers.
const (
	ActionDisplayData            = "locus.api.android.ACTION_DISPLAY_DATA"
	ActionDisplayDataSilently    = "locus.api.android.ACTION_DISPLAY_DATA_SILENTLY"
	ActionRemoveDataSilently     = "locus.api.android.ACTION_REMOVE_DATA_SILENTLY"
	ActionNavigationStart        = "locus.api.android.ACTION_NAVIGATION_START"
	ActionGuidingStart           = "locus.api.android.ACTION_GUIDING_START"
	ActionPickLocation           = "locus.api.android.ACTION_PICK_LOCATION"
	ActionAddNewWmsMap           = "locus.api.android.ACTION_ADD_NEW_WMS_MAP"
	ActionDisplayPointScreen     = "locus.api.android.ACTION_DISPLAY_POINT_SCREEN"
	ActionDisplayStoreItem       = "locus.api.android.ACTION_DISPLAY_STORE_ITEM"
	ActionTrackRecordStart       = "locus.api.android.ACTION_TRACK_RECORD_START"
	ActionTrackRecordPause       = "locus.api.android.ACTION_TRACK_RECORD_PAUSE"
	ActionTrackRecordStop        = "locus.api.android.ACTION_TRACK_RECORD_STOP"
	ActionTrackRecordAddWaypoint = "locus.api.android.ACTION_TRACK_RECORD_ADD_WPT"
	ActionRefreshPeriodicUpdates = "com.asamm.locus.ACTION_REFRESH_PERIODIC_UPDATE_LISTENERS"
	ActionQuery                  = "locus.api.android.QUERY"
	ActionUpdate                 = "locus.api.android.UPDATE"
)

// Extra keys attached to requests.
const (
	ExtraPointsData        = "INTENT_EXTRA_POINTS_DATA"
	ExtraPointsDataArray   = "INTENT_EXTRA_POINTS_DATA_ARRAY"
	ExtraTracksSingle      = "INTENT_EXTRA_TRACKS_SINGLE"
	ExtraTracksMulti       = "INTENT_EXTRA_TRACKS_MULTI"
	ExtraCenterOnData      = "INTENT_EXTRA_CENTER_ON_DATA"
	ExtraCallImport        = "INTENT_EXTRA_CALL_IMPORT"
	ExtraName              = "INTENT_EXTRA_NAME"
	ExtraLatitude          = "INTENT_EXTRA_LATITUDE"
	ExtraLongitude         = "INTENT_EXTRA_LONGITUDE"
	ExtraAddressText       = "INTENT_EXTRA_ADDRESS_TEXT"
	ExtraPackageName       = "INTENT_EXTRA_PACKAGE_NAME"
	ExtraItemID            = "INTENT_EXTRA_ITEM_ID"
	ExtraItemsID           = "INTENT_EXTRA_ITEMS_ID"
	ExtraAddNewWmsMapURL   = "INTENT_EXTRA_ADD_NEW_WMS_MAP_URL"
	ExtraTrackRecProfile   = "INTENT_EXTRA_TRACK_REC_PROFILE"
	ExtraTrackRecAutoSave  = "INTENT_EXTRA_TRACK_REC_AUTO_SAVE"
	ExtraTrackRecActAfter  = "INTENT_EXTRA_TRACK_REC_ACTION_AFTER"
	ExtraPointOverwrite    = "INTENT_EXTRA_POINT_OVERWRITE"
	ExtraLoadAllGcPoints   = "loadAllGcWaypoints"
	ExtraPointPayload      = "waypoint"
	SelectionGetWaypointID = "getWaypointId"
)

// Response value keys.
const (
	KeyLocusInfo       = "locusInfo"
	KeyUpdateContainer = "updateContainer"
	KeyMapPreview      = "mapPreview"
	KeyPoint           = "waypoint"
	KeyPointIDs        = "waypointIds"
	KeyPointUpdated    = "updatedCount"
	KeyTrack           = "track"
	KeyTrackRecProfile = "trackRecordProfiles"
	KeyPurchaseState   = "purchaseState"
)

// WaypointAction is what the host does after a waypoint is added to a
// running track recording.
type WaypointAction string

const (
	WaypointBasic WaypointAction = "basic"
	WaypointAudio WaypointAction = "audio"
	WaypointPhoto WaypointAction = "photo"
	WaypointVideo WaypointAction = "video"
)

func (a WaypointAction) Valid() bool {
	switch a {
	case WaypointBasic, WaypointAudio, WaypointPhoto, WaypointVideo:
		return true
	default:
		return false
	}
}

// PurchaseState of a store item.
type PurchaseState int32

const (
	PurchaseUnknown      PurchaseState = 0
	PurchasePurchased    PurchaseState = 1
	PurchaseNotPurchased PurchaseState = 2
)

func (s PurchaseState) String() string {
	switch s {
	case PurchasePurchased:
		return "purchased"
	case PurchaseNotPurchased:
		return "not_purchased"
	default:
		return "unknown"
	}
}
