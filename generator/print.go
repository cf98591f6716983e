package generator

// PrintError is the fixed taxonomy generator print failures are mapped
// to. The host turns these into localized strings.
type PrintError int

const (
	PrintNoError PrintError = iota
	PrintTempFileError
	PrintConversionError
	PrintCrashError
	PrintStartError
	PrintToFileError
	PrintInvalidStateError
	PrintUnableToFindError
	PrintNoFileError
	PrintNoBinaryError
	PrintUnknownError
)

// Message returns the host-facing description for the error.
func (e PrintError) Message() string {
	switch e {
	case PrintNoError:
		return ""
	case PrintTempFileError:
		return "Could not open a temporary file"
	case PrintConversionError:
		return "The file conversion failed"
	case PrintCrashError:
		return "The printing process crashed"
	case PrintStartError:
		return "The printing process could not be started"
	case PrintToFileError:
		return "Printing to a file failed"
	case PrintInvalidStateError:
		return "The document is in an invalid state for printing"
	case PrintUnableToFindError:
		return "Unable to find the printing component"
	case PrintNoFileError:
		return "There is no file to print"
	case PrintNoBinaryError:
		return "The printing helper binary is missing"
	default:
		return "Unknown printing error"
	}
}
