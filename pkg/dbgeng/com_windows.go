//go:build windows

package dbgeng

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Interface ids of the engine interfaces bound by this package.
var (
	iidDebugClient = windows.GUID{
		Data1: 0x27fe5639, Data2: 0x8407, Data3: 0x4f47,
		Data4: [8]byte{0x83, 0x64, 0xee, 0x11, 0x8f, 0xb0, 0x8a, 0xc8},
	}
	iidDebugControl3 = windows.GUID{
		Data1: 0x7df74a86, Data2: 0xb03f, Data3: 0x407f,
		Data4: [8]byte{0x90, 0xab, 0xa2, 0x0d, 0xad, 0xce, 0xad, 0x08},
	}
	iidDebugSymbols3 = windows.GUID{
		Data1: 0xf02fbecc, Data2: 0x50ac, Data3: 0x4f36,
		Data4: [8]byte{0x9a, 0xd9, 0xc9, 0x75, 0xe8, 0xf3, 0x2f, 0xf8},
	}
	iidDebugDataSpaces4 = windows.GUID{
		Data1: 0xd98ada1f, Data2: 0x29e9, Data3: 0x4ef5,
		Data4: [8]byte{0xa6, 0xc0, 0xe5, 0x33, 0x49, 0x88, 0x32, 0x12},
	}
	iidDebugRegisters = windows.GUID{
		Data1: 0xce289126, Data2: 0x9e84, Data3: 0x45a7,
		Data4: [8]byte{0x93, 0x7e, 0x67, 0xbb, 0x18, 0x69, 0x14, 0x93},
	}
)

// Vtable slot declarations mirror dbgeng.h. Field order is the ABI; only a
// few slots are called but every slot must be declared to keep the offsets
// of the ones that are.

type iUnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

type iUnknown struct {
	vtbl *iUnknownVtbl
}

func (u *iUnknown) queryInterface(iid *windows.GUID, out *unsafe.Pointer) error {
	hr, _, _ := syscallN(u.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(u)),
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(out)))
	return checkHR("IUnknown::QueryInterface", hr)
}

func (u *iUnknown) addRef() {
	syscallN(u.vtbl.AddRef, uintptr(unsafe.Pointer(u)))
}

func (u *iUnknown) release() {
	syscallN(u.vtbl.Release, uintptr(unsafe.Pointer(u)))
}

type debugClientVtbl struct {
	iUnknownVtbl
	AttachKernel                              uintptr
	GetKernelConnectionOptions                uintptr
	SetKernelConnectionOptions                uintptr
	StartProcessServer                        uintptr
	ConnectProcessServer                      uintptr
	DisconnectProcessServer                   uintptr
	GetRunningProcessSystemIds                uintptr
	GetRunningProcessSystemIdByExecutableName uintptr
	GetRunningProcessDescription              uintptr
	AttachProcess                             uintptr
	CreateProcess                             uintptr
	CreateProcessAndAttach                    uintptr
	GetProcessOptions                         uintptr
	AddProcessOptions                         uintptr
	RemoveProcessOptions                      uintptr
	SetProcessOptions                         uintptr
	OpenDumpFile                              uintptr
	WriteDumpFile                             uintptr
	ConnectSession                            uintptr
	StartServer                               uintptr
	OutputServers                             uintptr
	TerminateProcesses                        uintptr
	DetachProcesses                           uintptr
	EndSession                                uintptr
	GetExitCode                               uintptr
	DispatchCallbacks                         uintptr
	ExitDispatch                              uintptr
	CreateClient                              uintptr
	GetInputCallbacks                         uintptr
	SetInputCallbacks                         uintptr
	GetOutputCallbacks                        uintptr
	SetOutputCallbacks                        uintptr
	GetOutputMask                             uintptr
	SetOutputMask                             uintptr
	GetOtherOutputMask                        uintptr
	SetOtherOutputMask                        uintptr
	GetOutputWidth                            uintptr
	SetOutputWidth                            uintptr
	GetOutputLinePrefix                       uintptr
	SetOutputLinePrefix                       uintptr
	GetIdentity                               uintptr
	OutputIdentity                            uintptr
	GetEventCallbacks                         uintptr
	SetEventCallbacks                         uintptr
	FlushCallbacks                            uintptr
}

type debugClient struct {
	vtbl *debugClientVtbl
}

func (c *debugClient) unknown() *iUnknown {
	return (*iUnknown)(unsafe.Pointer(c))
}

type debugControlVtbl struct {
	iUnknownVtbl
	// IDebugControl
	GetInterrupt                             uintptr
	SetInterrupt                             uintptr
	GetInterruptTimeout                      uintptr
	SetInterruptTimeout                      uintptr
	GetLogFile                               uintptr
	OpenLogFile                              uintptr
	CloseLogFile                             uintptr
	GetLogMask                               uintptr
	SetLogMask                               uintptr
	Input                                    uintptr
	ReturnInput                              uintptr
	Output                                   uintptr
	OutputVaList                             uintptr
	ControlledOutput                         uintptr
	ControlledOutputVaList                   uintptr
	OutputPrompt                             uintptr
	OutputPromptVaList                       uintptr
	GetPromptText                            uintptr
	OutputCurrentState                       uintptr
	OutputVersionInformation                 uintptr
	GetNotifyEventHandle                     uintptr
	SetNotifyEventHandle                     uintptr
	Assemble                                 uintptr
	Disassemble                              uintptr
	GetDisassembleEffectiveOffset            uintptr
	OutputDisassembly                        uintptr
	OutputDisassemblyLines                   uintptr
	GetNearInstruction                       uintptr
	GetStackTrace                            uintptr
	GetReturnOffset                          uintptr
	OutputStackTrace                         uintptr
	GetDebuggeeType                          uintptr
	GetActualProcessorType                   uintptr
	GetExecutingProcessorType                uintptr
	GetNumberPossibleExecutingProcessorTypes uintptr
	GetPossibleExecutingProcessorTypes       uintptr
	GetNumberProcessors                      uintptr
	GetSystemVersion                         uintptr
	GetPageSize                              uintptr
	IsPointer64Bit                           uintptr
	ReadBugCheckData                         uintptr
	GetSupportedProcessorTypes               uintptr
	GetProcessorTypeNames                    uintptr
	GetEffectiveProcessorType                uintptr
	SetEffectiveProcessorType                uintptr
	GetExecutionStatus                       uintptr
	SetExecutionStatus                       uintptr
	GetCodeLevel                             uintptr
	SetCodeLevel                             uintptr
	GetEngineOptions                         uintptr
	AddEngineOptions                         uintptr
	RemoveEngineOptions                      uintptr
	SetEngineOptions                         uintptr
	GetSystemErrorControl                    uintptr
	SetSystemErrorControl                    uintptr
	GetTextMacro                             uintptr
	SetTextMacro                             uintptr
	GetRadix                                 uintptr
	SetRadix                                 uintptr
	Evaluate                                 uintptr
	CoerceValue                              uintptr
	CoerceValues                             uintptr
	Execute                                  uintptr
	ExecuteCommandFile                       uintptr
	GetNumberBreakpoints                     uintptr
	GetBreakpointByIndex                     uintptr
	GetBreakpointById                        uintptr
	GetBreakpointParameters                  uintptr
	AddBreakpoint                            uintptr
	RemoveBreakpoint                         uintptr
	AddExtension                             uintptr
	RemoveExtension                          uintptr
	GetExtensionByPath                       uintptr
	CallExtension                            uintptr
	GetExtensionFunction                     uintptr
	GetWindbgExtensionApis32                 uintptr
	GetWindbgExtensionApis64                 uintptr
	GetNumberEventFilters                    uintptr
	GetEventFilterText                       uintptr
	GetEventFilterCommand                    uintptr
	SetEventFilterCommand                    uintptr
	GetSpecificFilterParameters              uintptr
	SetSpecificFilterParameters              uintptr
	GetSpecificFilterArgument                uintptr
	SetSpecificFilterArgument                uintptr
	GetExceptionFilterParameters             uintptr
	SetExceptionFilterParameters             uintptr
	GetExceptionFilterSecondCommand          uintptr
	SetExceptionFilterSecondCommand          uintptr
	WaitForEvent                             uintptr
	GetLastEventInformation                  uintptr
	// IDebugControl2
	GetCurrentTimeDate        uintptr
	GetCurrentSystemUpTime    uintptr
	GetDumpFormatFlags        uintptr
	GetNumberTextReplacements uintptr
	GetTextReplacement        uintptr
	SetTextReplacement        uintptr
	RemoveTextReplacements    uintptr
	OutputTextReplacements    uintptr
	// IDebugControl3
	GetAssemblyOptions          uintptr
	AddAssemblyOptions          uintptr
	RemoveAssemblyOptions       uintptr
	SetAssemblyOptions          uintptr
	GetExpressionSyntax         uintptr
	SetExpressionSyntax         uintptr
	SetExpressionSyntaxByName   uintptr
	GetNumberExpressionSyntaxes uintptr
	GetExpressionSyntaxNames    uintptr
	GetNumberEvents             uintptr
	GetEventIndexDescription    uintptr
	GetCurrentEventIndex        uintptr
	SetNextEventIndex           uintptr
}

type debugControl struct {
	vtbl *debugControlVtbl
}

func (c *debugControl) unknown() *iUnknown {
	return (*iUnknown)(unsafe.Pointer(c))
}

type debugSymbolsVtbl struct {
	iUnknownVtbl
	// IDebugSymbols
	GetSymbolOptions         uintptr
	AddSymbolOptions         uintptr
	RemoveSymbolOptions      uintptr
	SetSymbolOptions         uintptr
	GetNameByOffset          uintptr
	GetOffsetByName          uintptr
	GetNearNameByOffset      uintptr
	GetLineByOffset          uintptr
	GetOffsetByLine          uintptr
	GetNumberModules         uintptr
	GetModuleByIndex         uintptr
	GetModuleByModuleName    uintptr
	GetModuleByOffset        uintptr
	GetModuleNames           uintptr
	GetModuleParameters      uintptr
	GetSymbolModule          uintptr
	GetTypeName              uintptr
	GetTypeId                uintptr
	GetTypeSize              uintptr
	GetFieldOffset           uintptr
	GetSymbolTypeId          uintptr
	GetOffsetTypeId          uintptr
	ReadTypedDataVirtual     uintptr
	WriteTypedDataVirtual    uintptr
	OutputTypedDataVirtual   uintptr
	ReadTypedDataPhysical    uintptr
	WriteTypedDataPhysical   uintptr
	OutputTypedDataPhysical  uintptr
	GetScope                 uintptr
	SetScope                 uintptr
	ResetScope               uintptr
	GetScopeSymbolGroup      uintptr
	CreateSymbolGroup        uintptr
	StartSymbolMatch         uintptr
	GetNextSymbolMatch       uintptr
	EndSymbolMatch           uintptr
	Reload                   uintptr
	GetSymbolPath            uintptr
	SetSymbolPath            uintptr
	AppendSymbolPath         uintptr
	GetImagePath             uintptr
	SetImagePath             uintptr
	AppendImagePath          uintptr
	GetSourcePath            uintptr
	GetSourcePathElement     uintptr
	SetSourcePath            uintptr
	AppendSourcePath         uintptr
	FindSourceFile           uintptr
	GetSourceFileLineOffsets uintptr
	// IDebugSymbols2
	GetModuleVersionInformation uintptr
	GetModuleNameString         uintptr
	GetConstantName             uintptr
	GetFieldName                uintptr
	GetTypeOptions              uintptr
	AddTypeOptions              uintptr
	RemoveTypeOptions           uintptr
	SetTypeOptions              uintptr
	// IDebugSymbols3
	GetNameByOffsetWide         uintptr
	GetOffsetByNameWide         uintptr
	GetNearNameByOffsetWide     uintptr
	GetLineByOffsetWide         uintptr
	GetOffsetByLineWide         uintptr
	GetModuleByModuleNameWide   uintptr
	GetSymbolModuleWide         uintptr
	GetTypeNameWide             uintptr
	GetFieldNameWide            uintptr
	IsManagedModule             uintptr
	GetModuleByModuleName2      uintptr
	GetModuleByModuleName2Wide  uintptr
	GetModuleByOffset2          uintptr
	AddSyntheticModule          uintptr
	AddSyntheticModuleWide      uintptr
	RemoveSyntheticModule       uintptr
	GetCurrentScopeFrameIndex   uintptr
	SetScopeFrameByIndex        uintptr
	SetScopeFromJitDebugInfo    uintptr
	SetScopeFromStoredEvent     uintptr
	OutputSymbolByOffset        uintptr
	GetFunctionEntryByOffset    uintptr
	GetFieldTypeAndOffset       uintptr
	GetFieldTypeAndOffsetWide   uintptr
	AddSyntheticSymbol          uintptr
	AddSyntheticSymbolWide      uintptr
	RemoveSyntheticSymbol       uintptr
	GetSymbolEntriesByOffset    uintptr
	GetSymbolEntriesByName      uintptr
	GetSymbolEntriesByNameWide  uintptr
	GetSymbolEntryByToken       uintptr
	GetSymbolEntryInformation   uintptr
	GetSymbolEntryString        uintptr
	GetSymbolEntryStringWide    uintptr
	GetSymbolEntryOffsetRegions uintptr
	GetSymbolEntryBySymbolEntry uintptr
	GetSourceEntriesByOffset    uintptr
	GetSourceEntriesByLine      uintptr
	GetSourceEntriesByLineWide  uintptr
	GetSourceEntryString        uintptr
	GetSourceEntryStringWide    uintptr
	GetSourceEntryOffsetRegions uintptr
	GetSourceEntryBySourceEntry uintptr
}

type debugSymbols struct {
	vtbl *debugSymbolsVtbl
}

func (s *debugSymbols) unknown() *iUnknown {
	return (*iUnknown)(unsafe.Pointer(s))
}

type debugDataSpacesVtbl struct {
	iUnknownVtbl
	// IDebugDataSpaces
	ReadVirtual             uintptr
	WriteVirtual            uintptr
	SearchVirtual           uintptr
	ReadVirtualUncached     uintptr
	WriteVirtualUncached    uintptr
	ReadPointersVirtual     uintptr
	WritePointersVirtual    uintptr
	ReadPhysical            uintptr
	WritePhysical           uintptr
	ReadControl             uintptr
	WriteControl            uintptr
	ReadIo                  uintptr
	WriteIo                 uintptr
	ReadMsr                 uintptr
	WriteMsr                uintptr
	ReadBusData             uintptr
	WriteBusData            uintptr
	CheckLowMemory          uintptr
	ReadDebuggerData        uintptr
	ReadProcessorSystemData uintptr
	// IDebugDataSpaces2
	VirtualToPhysical                    uintptr
	GetVirtualTranslationPhysicalOffsets uintptr
	ReadHandleData                       uintptr
	FillVirtual                          uintptr
	FillPhysical                         uintptr
	QueryVirtual                         uintptr
	// IDebugDataSpaces3
	ReadImageNtHeaders uintptr
	ReadTagged         uintptr
	StartEnumTagged    uintptr
	GetNextTagged      uintptr
	EndEnumTagged      uintptr
	// IDebugDataSpaces4
	GetOffsetInformation                 uintptr
	GetNextDifferentlyValidOffsetVirtual uintptr
	GetValidRegionVirtual                uintptr
	SearchVirtual2                       uintptr
	ReadMultiByteStringVirtual           uintptr
	ReadMultiByteStringVirtualWide       uintptr
	ReadUnicodeStringVirtual             uintptr
	ReadUnicodeStringVirtualWide         uintptr
	ReadPhysical2                        uintptr
	WritePhysical2                       uintptr
}

type debugDataSpaces struct {
	vtbl *debugDataSpacesVtbl
}

func (d *debugDataSpaces) unknown() *iUnknown {
	return (*iUnknown)(unsafe.Pointer(d))
}

type debugRegistersVtbl struct {
	iUnknownVtbl
	GetNumberRegisters   uintptr
	GetDescription       uintptr
	GetIndexByName       uintptr
	GetValue             uintptr
	SetValue             uintptr
	GetValues            uintptr
	SetValues            uintptr
	OutputRegisters      uintptr
	GetInstructionOffset uintptr
	GetStackOffset       uintptr
	GetFrameOffset       uintptr
}

type debugRegisters struct {
	vtbl *debugRegistersVtbl
}

func (r *debugRegisters) unknown() *iUnknown {
	return (*iUnknown)(unsafe.Pointer(r))
}
