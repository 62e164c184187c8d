package ports

// FileSelector is the file-selection input. Selected is read at invocation time.
type FileSelector interface {
	Selected() []SelectedFile
}

// TextInput is a text field whose raw value is read at invocation time.
type TextInput interface {
	Value() string
}

// TextOutput is an element whose text content is replaced on every write.
type TextOutput interface {
	SetText(text string)
}

// Notifier shows a message the user has to acknowledge.
type Notifier interface {
	Notify(message string)
}

// Diagnostics is the developer-facing log channel.
type Diagnostics interface {
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}
