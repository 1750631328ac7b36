package orchestrator

// User-facing notification texts.
const (
	MsgTranslateEmpty  = "Please enter text to translate."
	MsgTranslateDone   = "Translation done!"
	MsgTranslateFailed = "Failed to translate. Please try again later."
	MsgPOSEmpty        = "Please enter text to perform POS tagging."
	MsgPOSDone         = "POS tagging completed!"
	MsgPOSFailed       = "Failed to perform POS tagging. Please try again later."
	MsgKeywordsEmpty   = "Please enter text to extract and translate keywords."
	MsgKeywordsDone    = "Keywords translated successfully!"
	MsgKeywordsFailed  = "Failed to translate keywords. Please try again later."
	MsgAnalysisEmpty   = "Please enter text to analyze."
	MsgAnalysisDone    = "Text analysis completed!"
	MsgAnalysisFailed  = "Failed to analyze text. Please try again later."
	MsgAudioDone       = "Audio processed successfully!"
	MsgAudioFailed     = "Failed to process audio. Please try again later."
	MsgMultiDone       = "Transcript and summary translated!"
	MsgMultiFailed     = "Failed to translate transcript and summary. Please try again later."
)
