package x11

// Event is an asynchronous message from the server. Every event type lists
// the wire opcodes it is decoded from; a few types cover several opcodes
// (a key press and release differ only in the opcode byte).
type Event interface {
	ImplementsEvent()
	opcodes() []byte
}

// sendEventBit is set in the opcode byte of events produced by SendEvent.
const sendEventBit = 0x80

// KeyEvent is KeyPress (2) or KeyRelease (3).
type KeyEvent struct {
	Press      bool
	Synthetic  bool
	Detail     Keycode
	Sequence   uint16
	Time       Timestamp
	Root       Window
	Event      Window
	Child      Window
	RootX      int16
	RootY      int16
	EventX     int16
	EventY     int16
	State      KeyButMask
	SameScreen bool
}

func decodeKeyEvent(buf []byte) Event {
	var v KeyEvent
	v.Press = buf[0]&^sendEventBit == 2
	v.decodeInput(buf)
	return v
}

// decodeInput reads the layout shared by key, button and motion events.
func (v *KeyEvent) decodeInput(buf []byte) {
	v.Synthetic = buf[0]&sendEventBit != 0
	v.Detail = Keycode(buf[1])
	v.Sequence = get16(buf[2:])
	v.Time = Timestamp(get32(buf[4:]))
	v.Root = Window(get32(buf[8:]))
	v.Event = Window(get32(buf[12:]))
	v.Child = Window(get32(buf[16:]))
	v.RootX = int16(get16(buf[20:]))
	v.RootY = int16(get16(buf[22:]))
	v.EventX = int16(get16(buf[24:]))
	v.EventY = int16(get16(buf[26:]))
	v.State = KeyButMask(get16(buf[28:]))
	v.SameScreen = buf[30] != 0
}

func (KeyEvent) ImplementsEvent() {}
func (KeyEvent) opcodes() []byte  { return []byte{2, 3} }

// ButtonEvent is ButtonPress (4) or ButtonRelease (5). Detail is the button
// number.
type ButtonEvent KeyEvent

func decodeButtonEvent(buf []byte) Event {
	var v KeyEvent
	v.Press = buf[0]&^sendEventBit == 4
	v.decodeInput(buf)
	return ButtonEvent(v)
}

func (ButtonEvent) ImplementsEvent() {}
func (ButtonEvent) opcodes() []byte  { return []byte{4, 5} }

// MotionNotifyEvent reports pointer motion. Detail is Normal (0) or Hint (1).
type MotionNotifyEvent KeyEvent

func decodeMotionNotifyEvent(buf []byte) Event {
	var v KeyEvent
	v.decodeInput(buf)
	return MotionNotifyEvent(v)
}

func (MotionNotifyEvent) ImplementsEvent() {}
func (MotionNotifyEvent) opcodes() []byte  { return []byte{6} }

// CrossingEvent is EnterNotify (7) or LeaveNotify (8).
type CrossingEvent struct {
	Enter           bool
	Synthetic       bool
	Detail          NotifyDetail
	Sequence        uint16
	Time            Timestamp
	Root            Window
	Event           Window
	Child           Window
	RootX           int16
	RootY           int16
	EventX          int16
	EventY          int16
	State           KeyButMask
	Mode            NotifyMode
	SameScreenFocus byte
}

func decodeCrossingEvent(buf []byte) Event {
	return CrossingEvent{
		Enter:           buf[0]&^sendEventBit == 7,
		Synthetic:       buf[0]&sendEventBit != 0,
		Detail:          NotifyDetail(buf[1]),
		Sequence:        get16(buf[2:]),
		Time:            Timestamp(get32(buf[4:])),
		Root:            Window(get32(buf[8:])),
		Event:           Window(get32(buf[12:])),
		Child:           Window(get32(buf[16:])),
		RootX:           int16(get16(buf[20:])),
		RootY:           int16(get16(buf[22:])),
		EventX:          int16(get16(buf[24:])),
		EventY:          int16(get16(buf[26:])),
		State:           KeyButMask(get16(buf[28:])),
		Mode:            NotifyMode(buf[30]),
		SameScreenFocus: buf[31],
	}
}

func (CrossingEvent) ImplementsEvent() {}
func (CrossingEvent) opcodes() []byte  { return []byte{7, 8} }

// FocusEvent is FocusIn (9) or FocusOut (10).
type FocusEvent struct {
	In        bool
	Synthetic bool
	Detail    NotifyDetail
	Sequence  uint16
	Event     Window
	Mode      NotifyMode
}

func decodeFocusEvent(buf []byte) Event {
	return FocusEvent{
		In:        buf[0]&^sendEventBit == 9,
		Synthetic: buf[0]&sendEventBit != 0,
		Detail:    NotifyDetail(buf[1]),
		Sequence:  get16(buf[2:]),
		Event:     Window(get32(buf[4:])),
		Mode:      NotifyMode(buf[8]),
	}
}

func (FocusEvent) ImplementsEvent() {}
func (FocusEvent) opcodes() []byte  { return []byte{9, 10} }

// KeymapNotifyEvent carries the keyboard state bit vector for keycodes 8-255.
// It has no sequence number.
type KeymapNotifyEvent struct {
	Keys [31]byte
}

func decodeKeymapNotifyEvent(buf []byte) Event {
	var v KeymapNotifyEvent
	copy(v.Keys[:], buf[1:])
	return v
}

func (KeymapNotifyEvent) ImplementsEvent() {}
func (KeymapNotifyEvent) opcodes() []byte  { return []byte{11} }

type ExposeEvent struct {
	Synthetic bool
	Sequence  uint16
	Window    Window
	X, Y      uint16
	Width     uint16
	Height    uint16
	Count     uint16 // number of Expose events still to follow
}

func decodeExposeEvent(buf []byte) Event {
	return ExposeEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Window:    Window(get32(buf[4:])),
		X:         get16(buf[8:]),
		Y:         get16(buf[10:]),
		Width:     get16(buf[12:]),
		Height:    get16(buf[14:]),
		Count:     get16(buf[16:]),
	}
}

func (ExposeEvent) ImplementsEvent() {}
func (ExposeEvent) opcodes() []byte  { return []byte{12} }

type GraphicsExposureEvent struct {
	Synthetic   bool
	Sequence    uint16
	Drawable    Drawable
	X, Y        uint16
	Width       uint16
	Height      uint16
	MinorOpcode uint16
	Count       uint16
	MajorOpcode byte
}

func decodeGraphicsExposureEvent(buf []byte) Event {
	return GraphicsExposureEvent{
		Synthetic:   buf[0]&sendEventBit != 0,
		Sequence:    get16(buf[2:]),
		Drawable:    Drawable(get32(buf[4:])),
		X:           get16(buf[8:]),
		Y:           get16(buf[10:]),
		Width:       get16(buf[12:]),
		Height:      get16(buf[14:]),
		MinorOpcode: get16(buf[16:]),
		Count:       get16(buf[18:]),
		MajorOpcode: buf[20],
	}
}

func (GraphicsExposureEvent) ImplementsEvent() {}
func (GraphicsExposureEvent) opcodes() []byte  { return []byte{13} }

type NoExposureEvent struct {
	Synthetic   bool
	Sequence    uint16
	Drawable    Drawable
	MinorOpcode uint16
	MajorOpcode byte
}

func decodeNoExposureEvent(buf []byte) Event {
	return NoExposureEvent{
		Synthetic:   buf[0]&sendEventBit != 0,
		Sequence:    get16(buf[2:]),
		Drawable:    Drawable(get32(buf[4:])),
		MinorOpcode: get16(buf[8:]),
		MajorOpcode: buf[10],
	}
}

func (NoExposureEvent) ImplementsEvent() {}
func (NoExposureEvent) opcodes() []byte  { return []byte{14} }

type VisibilityNotifyEvent struct {
	Synthetic bool
	Sequence  uint16
	Window    Window
	State     Visibility
}

func decodeVisibilityNotifyEvent(buf []byte) Event {
	return VisibilityNotifyEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Window:    Window(get32(buf[4:])),
		State:     Visibility(buf[8]),
	}
}

func (VisibilityNotifyEvent) ImplementsEvent() {}
func (VisibilityNotifyEvent) opcodes() []byte  { return []byte{15} }

type CreateNotifyEvent struct {
	Synthetic        bool
	Sequence         uint16
	Parent           Window
	Window           Window
	X, Y             int16
	Width, Height    uint16
	BorderWidth      uint16
	OverrideRedirect bool
}

func decodeCreateNotifyEvent(buf []byte) Event {
	return CreateNotifyEvent{
		Synthetic:        buf[0]&sendEventBit != 0,
		Sequence:         get16(buf[2:]),
		Parent:           Window(get32(buf[4:])),
		Window:           Window(get32(buf[8:])),
		X:                int16(get16(buf[12:])),
		Y:                int16(get16(buf[14:])),
		Width:            get16(buf[16:]),
		Height:           get16(buf[18:]),
		BorderWidth:      get16(buf[20:]),
		OverrideRedirect: buf[22] != 0,
	}
}

func (CreateNotifyEvent) ImplementsEvent() {}
func (CreateNotifyEvent) opcodes() []byte  { return []byte{16} }

type DestroyNotifyEvent struct {
	Synthetic bool
	Sequence  uint16
	Event     Window
	Window    Window
}

func decodeDestroyNotifyEvent(buf []byte) Event {
	return DestroyNotifyEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Event:     Window(get32(buf[4:])),
		Window:    Window(get32(buf[8:])),
	}
}

func (DestroyNotifyEvent) ImplementsEvent() {}
func (DestroyNotifyEvent) opcodes() []byte  { return []byte{17} }

type UnmapNotifyEvent struct {
	Synthetic     bool
	Sequence      uint16
	Event         Window
	Window        Window
	FromConfigure bool
}

func decodeUnmapNotifyEvent(buf []byte) Event {
	return UnmapNotifyEvent{
		Synthetic:     buf[0]&sendEventBit != 0,
		Sequence:      get16(buf[2:]),
		Event:         Window(get32(buf[4:])),
		Window:        Window(get32(buf[8:])),
		FromConfigure: buf[12] != 0,
	}
}

func (UnmapNotifyEvent) ImplementsEvent() {}
func (UnmapNotifyEvent) opcodes() []byte  { return []byte{18} }

type MapNotifyEvent struct {
	Synthetic        bool
	Sequence         uint16
	Event            Window
	Window           Window
	OverrideRedirect bool
}

func decodeMapNotifyEvent(buf []byte) Event {
	return MapNotifyEvent{
		Synthetic:        buf[0]&sendEventBit != 0,
		Sequence:         get16(buf[2:]),
		Event:            Window(get32(buf[4:])),
		Window:           Window(get32(buf[8:])),
		OverrideRedirect: buf[12] != 0,
	}
}

func (MapNotifyEvent) ImplementsEvent() {}
func (MapNotifyEvent) opcodes() []byte  { return []byte{19} }

type MapRequestEvent struct {
	Synthetic bool
	Sequence  uint16
	Parent    Window
	Window    Window
}

func decodeMapRequestEvent(buf []byte) Event {
	return MapRequestEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Parent:    Window(get32(buf[4:])),
		Window:    Window(get32(buf[8:])),
	}
}

func (MapRequestEvent) ImplementsEvent() {}
func (MapRequestEvent) opcodes() []byte  { return []byte{20} }

type ReparentNotifyEvent struct {
	Synthetic        bool
	Sequence         uint16
	Event            Window
	Window           Window
	Parent           Window
	X, Y             int16
	OverrideRedirect bool
}

func decodeReparentNotifyEvent(buf []byte) Event {
	return ReparentNotifyEvent{
		Synthetic:        buf[0]&sendEventBit != 0,
		Sequence:         get16(buf[2:]),
		Event:            Window(get32(buf[4:])),
		Window:           Window(get32(buf[8:])),
		Parent:           Window(get32(buf[12:])),
		X:                int16(get16(buf[16:])),
		Y:                int16(get16(buf[18:])),
		OverrideRedirect: buf[20] != 0,
	}
}

func (ReparentNotifyEvent) ImplementsEvent() {}
func (ReparentNotifyEvent) opcodes() []byte  { return []byte{21} }

type ConfigureNotifyEvent struct {
	Synthetic        bool
	Sequence         uint16
	Event            Window
	Window           Window
	AboveSibling     Window
	X, Y             int16
	Width, Height    uint16
	BorderWidth      uint16
	OverrideRedirect bool
}

func decodeConfigureNotifyEvent(buf []byte) Event {
	return ConfigureNotifyEvent{
		Synthetic:        buf[0]&sendEventBit != 0,
		Sequence:         get16(buf[2:]),
		Event:            Window(get32(buf[4:])),
		Window:           Window(get32(buf[8:])),
		AboveSibling:     Window(get32(buf[12:])),
		X:                int16(get16(buf[16:])),
		Y:                int16(get16(buf[18:])),
		Width:            get16(buf[20:]),
		Height:           get16(buf[22:]),
		BorderWidth:      get16(buf[24:]),
		OverrideRedirect: buf[26] != 0,
	}
}

func (ConfigureNotifyEvent) ImplementsEvent() {}
func (ConfigureNotifyEvent) opcodes() []byte  { return []byte{22} }

type ConfigureRequestEvent struct {
	Synthetic     bool
	StackMode     StackMode
	Sequence      uint16
	Parent        Window
	Window        Window
	Sibling       Window
	X, Y          int16
	Width, Height uint16
	BorderWidth   uint16
	ValueMask     uint16
}

func decodeConfigureRequestEvent(buf []byte) Event {
	return ConfigureRequestEvent{
		Synthetic:   buf[0]&sendEventBit != 0,
		StackMode:   StackMode(buf[1]),
		Sequence:    get16(buf[2:]),
		Parent:      Window(get32(buf[4:])),
		Window:      Window(get32(buf[8:])),
		Sibling:     Window(get32(buf[12:])),
		X:           int16(get16(buf[16:])),
		Y:           int16(get16(buf[18:])),
		Width:       get16(buf[20:]),
		Height:      get16(buf[22:]),
		BorderWidth: get16(buf[24:]),
		ValueMask:   get16(buf[26:]),
	}
}

func (ConfigureRequestEvent) ImplementsEvent() {}
func (ConfigureRequestEvent) opcodes() []byte  { return []byte{23} }

type GravityNotifyEvent struct {
	Synthetic bool
	Sequence  uint16
	Event     Window
	Window    Window
	X, Y      int16
}

func decodeGravityNotifyEvent(buf []byte) Event {
	return GravityNotifyEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Event:     Window(get32(buf[4:])),
		Window:    Window(get32(buf[8:])),
		X:         int16(get16(buf[12:])),
		Y:         int16(get16(buf[14:])),
	}
}

func (GravityNotifyEvent) ImplementsEvent() {}
func (GravityNotifyEvent) opcodes() []byte  { return []byte{24} }

type ResizeRequestEvent struct {
	Synthetic     bool
	Sequence      uint16
	Window        Window
	Width, Height uint16
}

func decodeResizeRequestEvent(buf []byte) Event {
	return ResizeRequestEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Window:    Window(get32(buf[4:])),
		Width:     get16(buf[8:]),
		Height:    get16(buf[10:]),
	}
}

func (ResizeRequestEvent) ImplementsEvent() {}
func (ResizeRequestEvent) opcodes() []byte  { return []byte{25} }

// CirculateEvent is CirculateNotify (26) or CirculateRequest (27).
type CirculateEvent struct {
	Request   bool
	Synthetic bool
	Sequence  uint16
	Event     Window
	Window    Window
	Place     Place
}

func decodeCirculateEvent(buf []byte) Event {
	return CirculateEvent{
		Request:   buf[0]&^sendEventBit == 27,
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Event:     Window(get32(buf[4:])),
		Window:    Window(get32(buf[8:])),
		Place:     Place(buf[16]),
	}
}

func (CirculateEvent) ImplementsEvent() {}
func (CirculateEvent) opcodes() []byte  { return []byte{26, 27} }

type PropertyNotifyEvent struct {
	Synthetic bool
	Sequence  uint16
	Window    Window
	Atom      Atom
	Time      Timestamp
	State     PropertyState
}

func decodePropertyNotifyEvent(buf []byte) Event {
	return PropertyNotifyEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Window:    Window(get32(buf[4:])),
		Atom:      Atom(get32(buf[8:])),
		Time:      Timestamp(get32(buf[12:])),
		State:     PropertyState(buf[16]),
	}
}

func (PropertyNotifyEvent) ImplementsEvent() {}
func (PropertyNotifyEvent) opcodes() []byte  { return []byte{28} }

type SelectionClearEvent struct {
	Synthetic bool
	Sequence  uint16
	Time      Timestamp
	Owner     Window
	Selection Atom
}

func decodeSelectionClearEvent(buf []byte) Event {
	return SelectionClearEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Time:      Timestamp(get32(buf[4:])),
		Owner:     Window(get32(buf[8:])),
		Selection: Atom(get32(buf[12:])),
	}
}

func (SelectionClearEvent) ImplementsEvent() {}
func (SelectionClearEvent) opcodes() []byte  { return []byte{29} }

type SelectionRequestEvent struct {
	Synthetic bool
	Sequence  uint16
	Time      Timestamp
	Owner     Window
	Requestor Window
	Selection Atom
	Target    Atom
	Property  Atom
}

func decodeSelectionRequestEvent(buf []byte) Event {
	return SelectionRequestEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Time:      Timestamp(get32(buf[4:])),
		Owner:     Window(get32(buf[8:])),
		Requestor: Window(get32(buf[12:])),
		Selection: Atom(get32(buf[16:])),
		Target:    Atom(get32(buf[20:])),
		Property:  Atom(get32(buf[24:])),
	}
}

func (SelectionRequestEvent) ImplementsEvent() {}
func (SelectionRequestEvent) opcodes() []byte  { return []byte{30} }

type SelectionNotifyEvent struct {
	Synthetic bool
	Sequence  uint16
	Time      Timestamp
	Requestor Window
	Selection Atom
	Target    Atom
	Property  Atom
}

func decodeSelectionNotifyEvent(buf []byte) Event {
	return SelectionNotifyEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Time:      Timestamp(get32(buf[4:])),
		Requestor: Window(get32(buf[8:])),
		Selection: Atom(get32(buf[12:])),
		Target:    Atom(get32(buf[16:])),
		Property:  Atom(get32(buf[20:])),
	}
}

func (SelectionNotifyEvent) ImplementsEvent() {}
func (SelectionNotifyEvent) opcodes() []byte  { return []byte{31} }

type ColormapNotifyEvent struct {
	Synthetic bool
	Sequence  uint16
	Window    Window
	Colormap  Colormap
	New       bool
	Installed bool
}

func decodeColormapNotifyEvent(buf []byte) Event {
	return ColormapNotifyEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Sequence:  get16(buf[2:]),
		Window:    Window(get32(buf[4:])),
		Colormap:  Colormap(get32(buf[8:])),
		New:       buf[12] != 0,
		Installed: buf[13] != 0,
	}
}

func (ColormapNotifyEvent) ImplementsEvent() {}
func (ColormapNotifyEvent) opcodes() []byte  { return []byte{32} }

type ClientMessageEvent struct {
	Synthetic bool
	Format    byte
	Sequence  uint16
	Window    Window
	Type      Atom
	Data      ClientMessageData
}

func decodeClientMessageEvent(buf []byte) Event {
	v := ClientMessageEvent{
		Synthetic: buf[0]&sendEventBit != 0,
		Format:    buf[1],
		Sequence:  get16(buf[2:]),
		Window:    Window(get32(buf[4:])),
		Type:      Atom(get32(buf[8:])),
	}
	getClientMessageData(buf[12:], &v.Data)
	return v
}

// bytes encodes the event for SendEvent.
func (v ClientMessageEvent) bytes() []byte {
	buf := make([]byte, 32)
	buf[0] = 33
	buf[1] = v.Format
	put32(buf[4:], uint32(v.Window))
	put32(buf[8:], uint32(v.Type))
	copy(buf[12:], v.Data.Data8[:])
	return buf
}

func (ClientMessageEvent) ImplementsEvent() {}
func (ClientMessageEvent) opcodes() []byte  { return []byte{33} }

type MappingNotifyEvent struct {
	Synthetic    bool
	Sequence     uint16
	Request      Mapping
	FirstKeycode Keycode
	Count        byte
}

func decodeMappingNotifyEvent(buf []byte) Event {
	return MappingNotifyEvent{
		Synthetic:    buf[0]&sendEventBit != 0,
		Sequence:     get16(buf[2:]),
		Request:      Mapping(buf[4]),
		FirstKeycode: Keycode(buf[5]),
		Count:        buf[6],
	}
}

func (MappingNotifyEvent) ImplementsEvent() {}
func (MappingNotifyEvent) opcodes() []byte  { return []byte{34} }

// eventTypes is the static dispatch table. Its order is also the order in
// which pending events are committed to listeners.
var eventTypes = []struct {
	opcodes []byte
	decode  func(buf []byte) Event
}{
	{(*Error)(nil).opcodes(), decodeError},
	{KeyEvent{}.opcodes(), decodeKeyEvent},
	{ButtonEvent{}.opcodes(), decodeButtonEvent},
	{MotionNotifyEvent{}.opcodes(), decodeMotionNotifyEvent},
	{CrossingEvent{}.opcodes(), decodeCrossingEvent},
	{FocusEvent{}.opcodes(), decodeFocusEvent},
	{KeymapNotifyEvent{}.opcodes(), decodeKeymapNotifyEvent},
	{ExposeEvent{}.opcodes(), decodeExposeEvent},
	{GraphicsExposureEvent{}.opcodes(), decodeGraphicsExposureEvent},
	{NoExposureEvent{}.opcodes(), decodeNoExposureEvent},
	{VisibilityNotifyEvent{}.opcodes(), decodeVisibilityNotifyEvent},
	{CreateNotifyEvent{}.opcodes(), decodeCreateNotifyEvent},
	{DestroyNotifyEvent{}.opcodes(), decodeDestroyNotifyEvent},
	{UnmapNotifyEvent{}.opcodes(), decodeUnmapNotifyEvent},
	{MapNotifyEvent{}.opcodes(), decodeMapNotifyEvent},
	{MapRequestEvent{}.opcodes(), decodeMapRequestEvent},
	{ReparentNotifyEvent{}.opcodes(), decodeReparentNotifyEvent},
	{ConfigureNotifyEvent{}.opcodes(), decodeConfigureNotifyEvent},
	{ConfigureRequestEvent{}.opcodes(), decodeConfigureRequestEvent},
	{GravityNotifyEvent{}.opcodes(), decodeGravityNotifyEvent},
	{ResizeRequestEvent{}.opcodes(), decodeResizeRequestEvent},
	{CirculateEvent{}.opcodes(), decodeCirculateEvent},
	{PropertyNotifyEvent{}.opcodes(), decodePropertyNotifyEvent},
	{SelectionClearEvent{}.opcodes(), decodeSelectionClearEvent},
	{SelectionRequestEvent{}.opcodes(), decodeSelectionRequestEvent},
	{SelectionNotifyEvent{}.opcodes(), decodeSelectionNotifyEvent},
	{ColormapNotifyEvent{}.opcodes(), decodeColormapNotifyEvent},
	{ClientMessageEvent{}.opcodes(), decodeClientMessageEvent},
	{MappingNotifyEvent{}.opcodes(), decodeMappingNotifyEvent},
}

// eventSlot buffers undelivered events of one type.
type eventSlot struct {
	decode    func(buf []byte) Event
	pending   []Event
	listeners []*listener
}

type listener struct {
	fn      func(Event)
	removed bool
}

// add registers fn and returns a func that removes it again.
func (s *eventSlot) add(fn func(Event)) func() {
	l := &listener{fn: fn}
	s.listeners = append(s.listeners, l)
	return func() { s.remove(l) }
}

// remove builds a new slice so a commit ranging over the old one is not
// disturbed; removed marks l so that commit skips it.
func (s *eventSlot) remove(l *listener) {
	l.removed = true
	kept := make([]*listener, 0, len(s.listeners))
	for _, o := range s.listeners {
		if o != l {
			kept = append(kept, o)
		}
	}
	s.listeners = kept
}

// dispatcher routes decoded events into per-type slots and hands them to
// listeners at commit time.
type dispatcher struct {
	depth    int
	slots    []*eventSlot
	byOpcode [128]*eventSlot
	unknown  map[byte]bool
}

func newDispatcher(depth int) *dispatcher {
	if depth < 1 {
		depth = 1
	}
	d := &dispatcher{depth: depth, unknown: make(map[byte]bool)}
	for _, et := range eventTypes {
		s := &eventSlot{decode: et.decode}
		d.slots = append(d.slots, s)
		for _, op := range et.opcodes {
			d.byOpcode[op] = s
		}
	}
	return d
}

// dispatch decodes a 32-byte frame into its slot. When the slot is full the
// oldest undelivered event is dropped, so with a depth of 1 the latest event
// of each type wins.
func (d *dispatcher) dispatch(buf []byte) {
	op := buf[0] &^ sendEventBit
	s := d.byOpcode[op]
	if s == nil {
		if !d.unknown[op] {
			d.unknown[op] = true
			logger.Printf("Dropping event with unknown opcode %d.", op)
		}
		return
	}
	ev := s.decode(buf)
	if len(s.pending) == d.depth {
		copy(s.pending, s.pending[1:])
		s.pending = s.pending[:len(s.pending)-1]
	}
	s.pending = append(s.pending, ev)
}

// commit delivers everything pending. Each slot is emptied before its
// listeners run, so a listener may issue requests that dispatch and commit
// again.
func (d *dispatcher) commit() {
	for _, s := range d.slots {
		if len(s.pending) == 0 {
			continue
		}
		evs := s.pending
		s.pending = nil
		for _, ev := range evs {
			if len(s.listeners) == 0 {
				if xe, ok := ev.(*Error); ok {
					logger.Printf("Unhandled error: %s", xe)
				}
				continue
			}
			for _, l := range s.listeners {
				if !l.removed {
					l.fn(ev)
				}
			}
		}
	}
}

// Listen registers fn to receive every committed event of type E. Calling
// the returned func unregisters it.
func Listen[E Event](c *Conn, fn func(E)) (unlisten func()) {
	var zero E
	s := c.events.byOpcode[zero.opcodes()[0]]
	if s == nil {
		logger.Panicf("no dispatch slot for event %T", zero)
	}
	return s.add(func(ev Event) { fn(ev.(E)) })
}
