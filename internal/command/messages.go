package command

// User-facing message formats. Multi-line messages use "\n"; front-ends
// prefix each line when displaying.
const (
	MsgAdded              = "New person added: %s, Phone: %s, Email: %s"
	MsgCleared            = "Address book has been cleared!"
	MsgCommandHelp        = "%s: %s"
	MsgHelpParameters     = "\tParameters: %s"
	MsgHelpExample        = "\tExample: %s"
	MsgDeleteSuccess      = "Deleted Person: %s"
	MsgPersonData         = "%s  Phone Number: %s  Email: %s"
	MsgListElementIndex   = "%d. "
	MsgGoodbye            = "Exiting Address Book... Good bye!"
	MsgInvalidFormat      = "Invalid command format: %s \n%s"
	MsgInvalidFile        = "The given file name [%s] is not a valid file name!"
	MsgInvalidProgramArgs = "Too many parameters! Correct program argument format:\n\taddressbook\n\taddressbook [custom storage file path]"
	MsgInvalidIndex       = "The person index provided is invalid"
	MsgInvalidStorage     = "Storage file has invalid content"
	MsgPersonNotFound     = "Person could not be found in address book"
	MsgErrorCreatingFile  = "Error: unable to create file: %s"
	MsgErrorMissingFile   = "Storage file missing: %s"
	MsgErrorReadingFile   = "Unexpected error: unable to read from file: %s"
	MsgErrorWritingFile   = "Unexpected error: unable to write to file: %s"
	MsgPersonsFound       = "%d persons found!"
	MsgStorageCreated     = "Created new empty storage file: %s"
	MsgWelcome            = "Welcome to your Address Book!"
	MsgUsingDefaultFile   = "Using default storage file : %s"
)
