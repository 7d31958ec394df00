package dbgeng

// Constants mirror their dbgeng.h counterparts and keep the vendor names.

// Output mask bits for IDebugControl::Output and IDebugClient output masks.
const (
	DEBUG_OUTPUT_NORMAL            = 0x00000001
	DEBUG_OUTPUT_ERROR             = 0x00000002
	DEBUG_OUTPUT_WARNING           = 0x00000004
	DEBUG_OUTPUT_VERBOSE           = 0x00000008
	DEBUG_OUTPUT_PROMPT            = 0x00000010
	DEBUG_OUTPUT_PROMPT_REGISTERS  = 0x00000020
	DEBUG_OUTPUT_EXTENSION_WARNING = 0x00000040
	DEBUG_OUTPUT_DEBUGGEE          = 0x00000080
	DEBUG_OUTPUT_DEBUGGEE_PROMPT   = 0x00000100
	DEBUG_OUTPUT_SYMBOLS           = 0x00000200
)

// Output control values for IDebugControl::Execute.
const (
	DEBUG_OUTCTL_THIS_CLIENT       = 0x00000000
	DEBUG_OUTCTL_ALL_CLIENTS       = 0x00000001
	DEBUG_OUTCTL_ALL_OTHER_CLIENTS = 0x00000002
	DEBUG_OUTCTL_IGNORE            = 0x00000003
	DEBUG_OUTCTL_LOG_ONLY          = 0x00000004
)

// Execution flags for IDebugControl::Execute.
const (
	DEBUG_EXECUTE_DEFAULT    = 0x00000000
	DEBUG_EXECUTE_ECHO       = 0x00000001
	DEBUG_EXECUTE_NOT_LOGGED = 0x00000002
	DEBUG_EXECUTE_NO_REPEAT  = 0x00000004
)

// DEBUG_VALUE type tags.
const (
	DEBUG_VALUE_INVALID   = 0
	DEBUG_VALUE_INT8      = 1
	DEBUG_VALUE_INT16     = 2
	DEBUG_VALUE_INT32     = 3
	DEBUG_VALUE_INT64     = 4
	DEBUG_VALUE_FLOAT32   = 5
	DEBUG_VALUE_FLOAT64   = 6
	DEBUG_VALUE_FLOAT80   = 7
	DEBUG_VALUE_FLOAT82   = 8
	DEBUG_VALUE_FLOAT128  = 9
	DEBUG_VALUE_VECTOR64  = 10
	DEBUG_VALUE_VECTOR128 = 11
)

// Debuggee classes reported by IDebugControl::GetDebuggeeType.
const (
	DEBUG_CLASS_UNINITIALIZED = 0
	DEBUG_CLASS_KERNEL        = 1
	DEBUG_CLASS_USER_WINDOWS  = 2
	DEBUG_CLASS_IMAGE_FILE    = 3
)

// Debuggee class qualifiers.
const (
	DEBUG_KERNEL_CONNECTION  = 0
	DEBUG_KERNEL_LOCAL       = 1
	DEBUG_KERNEL_EXDI_DRIVER = 2

	DEBUG_KERNEL_SMALL_DUMP = 1024
	DEBUG_KERNEL_DUMP       = 1025
	DEBUG_KERNEL_FULL_DUMP  = 1026

	DEBUG_USER_WINDOWS_PROCESS        = 0
	DEBUG_USER_WINDOWS_PROCESS_SERVER = 1
	DEBUG_USER_WINDOWS_SMALL_DUMP     = 1024
	DEBUG_USER_WINDOWS_DUMP           = 1026
)

// Execution status values.
const (
	DEBUG_STATUS_NO_CHANGE         = 0
	DEBUG_STATUS_GO                = 1
	DEBUG_STATUS_GO_HANDLED        = 2
	DEBUG_STATUS_GO_NOT_HANDLED    = 3
	DEBUG_STATUS_STEP_OVER         = 4
	DEBUG_STATUS_STEP_INTO         = 5
	DEBUG_STATUS_BREAK             = 6
	DEBUG_STATUS_NO_DEBUGGEE       = 7
	DEBUG_STATUS_STEP_BRANCH       = 8
	DEBUG_STATUS_IGNORE_EVENT      = 9
	DEBUG_STATUS_RESTART_REQUESTED = 10
)

// Process attach flags for IDebugClient::AttachProcess.
const (
	DEBUG_ATTACH_DEFAULT                   = 0x00000000
	DEBUG_ATTACH_NONINVASIVE               = 0x00000001
	DEBUG_ATTACH_EXISTING                  = 0x00000002
	DEBUG_ATTACH_NONINVASIVE_NO_SUSPEND    = 0x00000004
	DEBUG_ATTACH_INVASIVE_NO_INITIAL_BREAK = 0x00000008
	DEBUG_ATTACH_INVASIVE_RESUME_PROCESS   = 0x00000010
)

// Process creation flags for IDebugClient::CreateProcessAndAttach. These
// are the winbase creation flags the engine understands.
const (
	DEBUG_PROCESS                      = 0x00000001
	DEBUG_ONLY_THIS_PROCESS            = 0x00000002
	CREATE_NEW_CONSOLE                 = 0x00000010
	DEBUG_CREATE_PROCESS_NO_DEBUG_HEAP = 0x00000400
)

// Session end flags for IDebugClient::EndSession.
const (
	DEBUG_END_PASSIVE          = 0x00000000
	DEBUG_END_ACTIVE_TERMINATE = 0x00000001
	DEBUG_END_ACTIVE_DETACH    = 0x00000002
	DEBUG_END_DISCONNECT       = 0x00000004
)

// Flags for IDebugSymbols3::AddSyntheticModule.
const (
	DEBUG_ADDSYNTHMOD_DEFAULT = 0x00000000
)

// Register value sources for IDebugRegisters::GetValues.
const (
	DEBUG_REGSRC_DEBUGGEE = 0x00000000
	DEBUG_REGSRC_EXPLICIT = 0x00000001
	DEBUG_REGSRC_FRAME    = 0x00000002
)

// Flags for IDebugControl::SetInterrupt.
const (
	DEBUG_INTERRUPT_ACTIVE  = 0
	DEBUG_INTERRUPT_PASSIVE = 1
	DEBUG_INTERRUPT_EXIT    = 2
)

// DEBUG_ANY_ID matches any engine id where one is requested.
const DEBUG_ANY_ID = 0xFFFFFFFF

// WaitTimeoutInfinite waits forever in WaitForEvent (the engine's INFINITE).
const WaitTimeoutInfinite = 0xFFFFFFFF
