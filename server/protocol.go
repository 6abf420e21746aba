package server

// Interface names, the versions advertised for globals, and opcodes
// for the subset of the core and xdg-shell protocols that the
// compositor implements.

const (
	DisplayInterface       = "wl_display"
	RegistryInterface      = "wl_registry"
	CallbackInterface      = "wl_callback"
	CompositorInterface    = "wl_compositor"
	SurfaceInterface       = "wl_surface"
	RegionInterface        = "wl_region"
	ShmInterface           = "wl_shm"
	ShmPoolInterface       = "wl_shm_pool"
	BufferInterface        = "wl_buffer"
	SeatInterface          = "wl_seat"
	PointerInterface       = "wl_pointer"
	KeyboardInterface      = "wl_keyboard"
	OutputInterface        = "wl_output"
	WmBaseInterface        = "xdg_wm_base"
	PositionerInterface    = "xdg_positioner"
	XdgSurfaceInterface    = "xdg_surface"
	ToplevelInterface      = "xdg_toplevel"
	PopupInterface         = "xdg_popup"
	ShellInterface         = "wl_shell"
	ShellSurfaceInterface  = "wl_shell_surface"
	CompositorVersion      = 4
	ShmVersion             = 1
	SeatVersion            = 5
	OutputVersion          = 2
	WmBaseVersion          = 2
	ShellVersion           = 1
	serverIDStart          = 0xFF000000
	displayErrorEvent      = 0
	displayDeleteIDEvent   = 1
	registryGlobalEvent    = 0
	callbackDoneEvent      = 0
	shmFormatEvent         = 0
	bufferReleaseEvent     = 0
	seatCapabilitiesEvent  = 0
	seatNameEvent          = 1
	pointerEnterEvent      = 0
	pointerLeaveEvent      = 1
	pointerMotionEvent     = 2
	pointerButtonEvent     = 3
	pointerFrameEvent      = 5
	keyboardKeymapEvent    = 0
	keyboardEnterEvent     = 1
	keyboardLeaveEvent     = 2
	keyboardKeyEvent       = 3
	keyboardModifiersEvent = 4
	outputGeometryEvent    = 0
	outputModeEvent        = 1
	outputDoneEvent        = 2
	outputScaleEvent       = 3
	wmBasePingEvent        = 0
	xdgSurfaceConfigure    = 0
	toplevelConfigureEvent = 0
	toplevelCloseEvent     = 1
	popupDoneEvent         = 1
	shellSurfaceConfigure  = 1
)

// Error codes for wl_display.error.
const (
	ErrInvalidObject  = 0
	ErrInvalidMethod  = 1
	ErrNoMemory       = 2
	ErrImplementation = 3
)

// Interface specific error codes.
const (
	shmErrInvalidFormat = 0
	shmErrInvalidStride = 1
	shmErrInvalidFD     = 2
	wmBaseErrRole       = 0
	shellErrRole        = 0
)

// Shm formats.
const (
	ShmFormatARGB8888 = 0
	ShmFormatXRGB8888 = 1
)

// Seat capabilities.
const (
	seatCapPointer  = 1
	seatCapKeyboard = 2
)
