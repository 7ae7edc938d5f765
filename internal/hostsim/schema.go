package hostsim

import (
	"fmt"

	"github.com/danmuck/locuslink/internal/action"
)

// ExtraType is the scalar type an action expects for one extra.
type ExtraType uint8

const (
	TypeString ExtraType = iota + 1
	TypeBool
	TypeInt32
	TypeInt64
	TypeFloat64
)

func (t ExtraType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

type Requirement struct {
	Key      string
	Type     ExtraType
	Optional bool
}

// ActionSchema lists what one dispatched action must carry.
// When Payloads is non-empty the request must use one of those keys,
// unless Targets names an alternative set of extras.
type ActionSchema struct {
	Kinds    []action.Kind
	Extras   []Requirement
	Payloads []string
	Targets  []string
}

type ValidationError struct {
	Action string
	Key    string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("schema: action=%s: %s", e.Action, e.Reason)
	}
	return fmt.Sprintf("schema: action=%s key=%s: %s", e.Action, e.Key, e.Reason)
}

var (
	activity  = []action.Kind{action.KindActivity}
	broadcast = []action.Kind{action.KindBroadcast}
	either    = []action.Kind{action.KindActivity, action.KindBroadcast}
)

var navigationTarget = []string{action.ExtraLatitude, action.ExtraLongitude}

var requirements = map[string]ActionSchema{
	action.ActionDisplayData: {
		Kinds: activity,
		Extras: []Requirement{
			{action.ExtraCenterOnData, TypeBool, true},
			{action.ExtraCallImport, TypeBool, true},
		},
		Payloads: []string{action.ExtraPointsData, action.ExtraPointsDataArray, action.ExtraTracksSingle, action.ExtraTracksMulti},
	},
	action.ActionDisplayDataSilently: {
		Kinds:    broadcast,
		Extras:   []Requirement{{action.ExtraCenterOnData, TypeBool, true}},
		Payloads: []string{action.ExtraPointsData, action.ExtraPointsDataArray, action.ExtraTracksSingle, action.ExtraTracksMulti},
	},
	action.ActionRemoveDataSilently: {
		Kinds:    broadcast,
		Payloads: []string{action.ExtraItemsID},
	},
	action.ActionNavigationStart: {
		Kinds: activity,
		Extras: []Requirement{
			{action.ExtraName, TypeString, true},
			{action.ExtraLatitude, TypeFloat64, true},
			{action.ExtraLongitude, TypeFloat64, true},
			{action.ExtraAddressText, TypeString, true},
		},
		Payloads: []string{action.ExtraPointsData},
		Targets:  navigationTarget,
	},
	action.ActionGuidingStart: {
		Kinds: activity,
		Extras: []Requirement{
			{action.ExtraName, TypeString, true},
			{action.ExtraLatitude, TypeFloat64, true},
			{action.ExtraLongitude, TypeFloat64, true},
		},
		Payloads: []string{action.ExtraPointsData},
		Targets:  navigationTarget,
	},
	action.ActionPickLocation: {Kinds: activity},
	action.ActionAddNewWmsMap: {
		Kinds:  activity,
		Extras: []Requirement{{action.ExtraAddNewWmsMapURL, TypeString, false}},
	},
	action.ActionDisplayPointScreen: {
		Kinds:  activity,
		Extras: []Requirement{{action.ExtraItemID, TypeInt64, false}},
	},
	action.ActionDisplayStoreItem: {
		Kinds:  activity,
		Extras: []Requirement{{action.ExtraItemID, TypeInt64, false}},
	},
	action.ActionTrackRecordStart: {
		Kinds:  broadcast,
		Extras: []Requirement{{action.ExtraTrackRecProfile, TypeString, true}},
	},
	action.ActionTrackRecordPause: {Kinds: broadcast},
	action.ActionTrackRecordStop: {
		Kinds:  broadcast,
		Extras: []Requirement{{action.ExtraTrackRecAutoSave, TypeBool, true}},
	},
	action.ActionTrackRecordAddWaypoint: {
		Kinds: broadcast,
		Extras: []Requirement{
			{action.ExtraName, TypeString, true},
			{action.ExtraTrackRecAutoSave, TypeBool, true},
			{action.ExtraTrackRecActAfter, TypeString, true},
		},
	},
	action.ActionRefreshPeriodicUpdates: {Kinds: either},
}

// Validate checks a dispatched request against its action schema.
func Validate(req action.Request) error {
	schema, ok := requirements[req.Action]
	if !ok {
		return ValidationError{Action: req.Action, Reason: "unsupported action"}
	}
	if !kindAllowed(schema.Kinds, req.Kind) {
		return ValidationError{Action: req.Action, Reason: fmt.Sprintf("kind %s not accepted", req.Kind)}
	}
	for _, r := range schema.Extras {
		v, present := req.Extras.Get(r.Key)
		if !present {
			if r.Optional {
				continue
			}
			return ValidationError{Action: req.Action, Key: r.Key, Reason: "missing required extra"}
		}
		if got := typeOf(v); got != r.Type {
			return ValidationError{Action: req.Action, Key: r.Key, Reason: fmt.Sprintf("type mismatch: got=%s want=%s", got, r.Type)}
		}
	}
	if len(schema.Payloads) == 0 {
		return nil
	}
	if len(req.Payload) > 0 {
		for _, key := range schema.Payloads {
			if key == req.PayloadKey {
				return nil
			}
		}
		return ValidationError{Action: req.Action, Key: req.PayloadKey, Reason: "unexpected payload key"}
	}
	if hasAll(req.Extras, schema.Targets) || (req.Action == action.ActionNavigationStart && req.Extras.Has(action.ExtraAddressText)) {
		return nil
	}
	return ValidationError{Action: req.Action, Reason: "missing payload"}
}

func kindAllowed(kinds []action.Kind, k action.Kind) bool {
	for _, allowed := range kinds {
		if allowed == k {
			return true
		}
	}
	return false
}

func hasAll(extras action.Extras, keys []string) bool {
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		if !extras.Has(k) {
			return false
		}
	}
	return true
}

func typeOf(v any) ExtraType {
	switch v.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBool
	case int32:
		return TypeInt32
	case int64:
		return TypeInt64
	case float64:
		return TypeFloat64
	default:
		return 0
	}
}
