package session

// Wire constants for the response envelope and action payloads.
const (
	schemaVersion = "1.0"

	actionTypePlayAudio = "PlayAudio"
	actionTypeHangup    = "Hangup"
	actionTypePause     = "Pause"

	audioSourceTypeS3 = "S3"

	// sipResponseCodeNormal ends the call without signalling an error.
	sipResponseCodeNormal = "0"
)

// Action is one directive in the response action list. The concrete types
// below carry their own wire shape; the marker method keeps the union closed.
type Action interface {
	actionType() string
}

// AudioSource locates a stored audio object for playback.
type AudioSource struct {
	Type       string `json:"Type"`
	BucketName string `json:"BucketName"`
	Key        string `json:"Key"`
}

// PlayAudioAction instructs the platform to play a stored audio object.
type PlayAudioAction struct {
	Type       string `json:"Type"`
	Parameters struct {
		AudioSource AudioSource `json:"AudioSource"`
	} `json:"Parameters"`
}

func (PlayAudioAction) actionType() string { return actionTypePlayAudio }

// NewPlayAudioAction builds a playback directive for an object in the
// configured audio bucket.
func NewPlayAudioAction(bucket, key string) PlayAudioAction {
	var action PlayAudioAction

	action.Type = actionTypePlayAudio
	action.Parameters.AudioSource = AudioSource{
		Type:       audioSourceTypeS3,
		BucketName: bucket,
		Key:        key,
	}

	return action
}

// HangupAction instructs the platform to end the call.
type HangupAction struct {
	Type       string `json:"Type"`
	Parameters struct {
		SipResponseCode string `json:"SipResponseCode"`
		ParticipantTag  string `json:"ParticipantTag"`
	} `json:"Parameters"`
}

func (HangupAction) actionType() string { return actionTypeHangup }

// NewHangupAction builds the normal-termination hangup directive. It doubles
// as the fail-safe response for malformed or unrecognized events.
func NewHangupAction() HangupAction {
	var action HangupAction

	action.Type = actionTypeHangup
	action.Parameters.SipResponseCode = sipResponseCodeNormal
	action.Parameters.ParticipantTag = ""

	return action
}

// PauseAction instructs the platform to wait before the next action.
type PauseAction struct {
	Type       string `json:"Type"`
	Parameters struct {
		DurationInMilliseconds int `json:"DurationInMilliseconds"`
	} `json:"Parameters"`
}

func (PauseAction) actionType() string { return actionTypePause }

// NewPauseAction builds a pause directive of the given duration.
func NewPauseAction(durationMs int) PauseAction {
	var action PauseAction

	action.Type = actionTypePause
	action.Parameters.DurationInMilliseconds = durationMs

	return action
}

// Response is the envelope returned to the platform for every event. The
// action list may be empty, which tells the platform to do nothing and wait.
type Response struct {
	SchemaVersion string   `json:"SchemaVersion"`
	Actions       []Action `json:"Actions"`
}

// NewResponse wraps a list of actions in the versioned response envelope.
// The Actions slice is always non-nil so an empty list marshals as [].
func NewResponse(actions ...Action) Response {
	if actions == nil {
		actions = []Action{}
	}

	return Response{
		SchemaVersion: schemaVersion,
		Actions:       actions,
	}
}
