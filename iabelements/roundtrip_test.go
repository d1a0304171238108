package iabelements

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/ausocean/iab/bitstream"
	"github.com/ausocean/iab/dlc"
	"github.com/ausocean/iab/geometry"
)

func newTestFrame() *IAFrame {
	f := NewIAFrame()
	f.SampleRate = dlc.SampleRate48k
	f.BitDepth = BitDepth24
	f.FrameRate = dlc.FrameRate24
	return f
}

func panSubBlocks(n int) []ObjectPanSubBlock {
	out := make([]ObjectPanSubBlock, n)
	for i := range out {
		out[i] = ObjectPanSubBlock{
			HasContent: true,
			Gain:       geometry.Unity(),
			Position:   geometry.UnitCubePosition{X: uint16(i), Y: 1, Z: 2},
			Spread:     geometry.Spread{Mode: geometry.SpreadNone},
			Decor:      geometry.NoDecor(),
		}
	}
	return out
}

func serializeFrame(t *testing.T, f *IAFrame) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Serialize(bitstream.NewWriter(&buf)); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return buf.Bytes()
}

func parseFrame(t *testing.T, raw []byte) *IAFrame {
	t.Helper()
	got, err := ParseFrameElement(bitstream.NewReader(bytes.NewReader(raw)))
	if err != nil {
		t.Fatalf("ParseFrameElement: %v", err)
	}
	return got
}

func TestEmptyFrameRoundTrip(t *testing.T) {
	f := newTestFrame()
	raw := serializeFrame(t, f)
	got := parseFrame(t, raw)

	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBedDefinitionRoundTrip(t *testing.T) {
	f := newTestFrame()
	bed := NewBedDefinition()
	bed.MetaID = 7
	bed.Channels = []IABChannel{
		{ChannelID: ChannelLeft, AudioDataID: 1, Gain: geometry.Unity()},
		{ChannelID: ChannelRight, AudioDataID: 2, Gain: geometry.Silence(), DecorExists: true, DecorCoeff: geometry.MaxDecor()},
	}
	bed.AudioDescription = "stereo bed"
	f.SubElements = append(f.SubElements, bed)

	raw := serializeFrame(t, f)
	got := parseFrame(t, raw)

	if len(got.SubElements) != 1 {
		t.Fatalf("got %d sub-elements, want 1", len(got.SubElements))
	}
	gotBed, ok := got.SubElements[0].(*BedDefinition)
	if !ok {
		t.Fatalf("sub-element type = %T, want *BedDefinition", got.SubElements[0])
	}
	if gotBed.ChannelCount() != 2 {
		t.Errorf("ChannelCount = %d, want 2", gotBed.ChannelCount())
	}
	if diff := cmp.Diff(bed.Channels, gotBed.Channels); diff != "" {
		t.Errorf("channels mismatch (-want +got):\n%s", diff)
	}
	if gotBed.AudioDescription != bed.AudioDescription {
		t.Errorf("AudioDescription = %q, want %q", gotBed.AudioDescription, bed.AudioDescription)
	}
}

func TestObjectDefinitionRoundTrip(t *testing.T) {
	f := newTestFrame()
	n, err := dlc.NumSubBlocksForFrameRate(f.FrameRate)
	if err != nil {
		t.Fatalf("NumSubBlocksForFrameRate: %v", err)
	}

	obj := NewObjectDefinition()
	obj.MetaID = 3
	obj.AudioDataID = 9
	obj.ConditionalFlag = true
	obj.UseCase = UseCase51
	obj.PanSubBlocks = panSubBlocks(n)
	obj.AudioDescription = "dialogue"
	f.SubElements = append(f.SubElements, obj)

	raw := serializeFrame(t, f)
	got := parseFrame(t, raw)

	gotObj, ok := got.SubElements[0].(*ObjectDefinition)
	if !ok {
		t.Fatalf("sub-element type = %T, want *ObjectDefinition", got.SubElements[0])
	}
	if diff := cmp.Diff(obj.PanSubBlocks, gotObj.PanSubBlocks); diff != "" {
		t.Errorf("pan sub-blocks mismatch (-want +got):\n%s", diff)
	}
	if gotObj.UseCase != UseCase51 || !gotObj.ConditionalFlag {
		t.Errorf("useCase/conditionalFlag = %v/%v, want UseCase51/true", gotObj.UseCase, gotObj.ConditionalFlag)
	}
}

func TestObjectWithZone19RoundTrip(t *testing.T) {
	f := newTestFrame()
	n, err := dlc.NumSubBlocksForFrameRate(f.FrameRate)
	if err != nil {
		t.Fatalf("NumSubBlocksForFrameRate: %v", err)
	}

	obj := NewObjectDefinition()
	obj.AudioDataID = 1
	obj.PanSubBlocks = panSubBlocks(n)

	zone := NewObjectZoneDefinition19()
	zone.Zone19SubBlocks = make([]Zone19SubBlock, n)
	for i := range zone.Zone19SubBlocks {
		zone.Zone19SubBlocks[i].HasContent = true
		for z := range zone.Zone19SubBlocks[i].ZoneGains {
			zone.Zone19SubBlocks[i].ZoneGains[z] = geometry.ZoneUnity()
		}
	}
	obj.SubElements = append(obj.SubElements, zone)
	f.SubElements = append(f.SubElements, obj)

	raw := serializeFrame(t, f)
	got := parseFrame(t, raw)

	gotObj := got.SubElements[0].(*ObjectDefinition)
	if len(gotObj.SubElements) != 1 {
		t.Fatalf("got %d nested sub-elements, want 1", len(gotObj.SubElements))
	}
	gotZone, ok := gotObj.SubElements[0].(*ObjectZoneDefinition19)
	if !ok {
		t.Fatalf("nested sub-element type = %T, want *ObjectZoneDefinition19", gotObj.SubElements[0])
	}
	if diff := cmp.Diff(zone.Zone19SubBlocks, gotZone.Zone19SubBlocks); diff != "" {
		t.Errorf("zone19 sub-blocks mismatch (-want +got):\n%s", diff)
	}
}

// TestObjectPanSubBlockOmittedContentRoundTrip exercises the
// "contents only on hasContent" path: sub-block 0 always carries content,
// but later indices with HasContent false must round-trip as an empty
// time-slice rather than fabricating the prior pan position.
func TestObjectPanSubBlockOmittedContentRoundTrip(t *testing.T) {
	f := newTestFrame()
	n, err := dlc.NumSubBlocksForFrameRate(f.FrameRate)
	if err != nil {
		t.Fatalf("NumSubBlocksForFrameRate: %v", err)
	}
	if n < 2 {
		t.Fatalf("NumSubBlocksForFrameRate = %d, need at least 2 to exercise the flag=0 path", n)
	}

	obj := NewObjectDefinition()
	obj.AudioDataID = 1
	obj.PanSubBlocks = panSubBlocks(n)
	obj.PanSubBlocks[1].HasContent = false
	f.SubElements = append(f.SubElements, obj)

	raw := serializeFrame(t, f)
	got := parseFrame(t, raw)

	gotObj := got.SubElements[0].(*ObjectDefinition)
	if gotObj.PanSubBlocks[0].HasContent != true {
		t.Errorf("sub-block 0 HasContent = false, want true (always present)")
	}
	if diff := cmp.Diff(ObjectPanSubBlock{}, gotObj.PanSubBlocks[1]); diff != "" {
		t.Errorf("sub-block 1 with hasContent=false should round-trip as zero value (-want +got):\n%s", diff)
	}
	if gotObj.PanSubBlocks[2].HasContent != true {
		t.Errorf("sub-block 2 HasContent = false, want true")
	}
	if diff := cmp.Diff(obj.PanSubBlocks[2], gotObj.PanSubBlocks[2]); diff != "" {
		t.Errorf("sub-block 2 mismatch (-want +got):\n%s", diff)
	}
}

// TestZone19SubBlockOmittedContentRoundTrip mirrors
// TestObjectPanSubBlockOmittedContentRoundTrip for ObjectZoneDefinition19.
func TestZone19SubBlockOmittedContentRoundTrip(t *testing.T) {
	f := newTestFrame()
	n, err := dlc.NumSubBlocksForFrameRate(f.FrameRate)
	if err != nil {
		t.Fatalf("NumSubBlocksForFrameRate: %v", err)
	}
	if n < 2 {
		t.Fatalf("NumSubBlocksForFrameRate = %d, need at least 2 to exercise the flag=0 path", n)
	}

	obj := NewObjectDefinition()
	obj.AudioDataID = 1
	obj.PanSubBlocks = panSubBlocks(n)

	zone := NewObjectZoneDefinition19()
	zone.Zone19SubBlocks = make([]Zone19SubBlock, n)
	for i := range zone.Zone19SubBlocks {
		zone.Zone19SubBlocks[i].HasContent = true
		for z := range zone.Zone19SubBlocks[i].ZoneGains {
			zone.Zone19SubBlocks[i].ZoneGains[z] = geometry.ZoneUnity()
		}
	}
	zone.Zone19SubBlocks[1].HasContent = false
	obj.SubElements = append(obj.SubElements, zone)
	f.SubElements = append(f.SubElements, obj)

	raw := serializeFrame(t, f)
	got := parseFrame(t, raw)

	gotObj := got.SubElements[0].(*ObjectDefinition)
	gotZone := gotObj.SubElements[0].(*ObjectZoneDefinition19)

	if !gotZone.Zone19SubBlocks[0].HasContent {
		t.Errorf("sub-block 0 HasContent = false, want true (always present)")
	}
	if diff := cmp.Diff(Zone19SubBlock{}, gotZone.Zone19SubBlocks[1]); diff != "" {
		t.Errorf("sub-block 1 with hasContent=false should round-trip as zero value (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(zone.Zone19SubBlocks[2], gotZone.Zone19SubBlocks[2]); diff != "" {
		t.Errorf("sub-block 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestAudioDataPCMRoundTrip(t *testing.T) {
	f := newTestFrame()
	ad, err := NewAudioDataPCM(42, []byte{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("NewAudioDataPCM: %v", err)
	}
	f.SubElements = append(f.SubElements, ad)

	raw := serializeFrame(t, f)
	got := parseFrame(t, raw)

	gotAD, ok := got.SubElements[0].(*AudioDataPCM)
	if !ok {
		t.Fatalf("sub-element type = %T, want *AudioDataPCM", got.SubElements[0])
	}
	if gotAD.AudioDataID != 42 {
		t.Errorf("AudioDataID = %d, want 42", gotAD.AudioDataID)
	}
	if !bytes.Equal(gotAD.PCMData, ad.PCMData) {
		t.Errorf("PCMData = %v, want %v", gotAD.PCMData, ad.PCMData)
	}
}

func TestAudioDataPCMRejectsReservedID(t *testing.T) {
	if _, err := NewAudioDataPCM(0, []byte{1}); !errors.Is(err, ErrReservedAudioDataID) {
		t.Fatalf("err = %v, want ErrReservedAudioDataID", err)
	}
}

// TestSkipUnknownSubElement crafts a raw IAFrame payload that claims two
// sub-elements under subElementCount but whose first ID is not one of the
// nine enumerated kinds, and verifies the parse loop skips it and still
// parses the second (a real UserData), per the "lenient parse, validator
// reports strictness" design.
func TestSkipUnknownSubElement(t *testing.T) {
	var frameBuf bytes.Buffer
	fw := bitstream.NewWriter(&frameBuf)

	if err := fw.WriteBits(1, 8); err != nil { // version
		t.Fatal(err)
	}
	if err := fw.WriteBits(0, 2); err != nil { // sampleRate 48k
		t.Fatal(err)
	}
	if err := fw.WriteBits(1, 2); err != nil { // bitDepth 24
		t.Fatal(err)
	}
	if err := fw.WriteBits(uint64(dlc.FrameRate24), 4); err != nil {
		t.Fatal(err)
	}
	if err := fw.WritePlexN(8, 0); err != nil { // maxRendered
		t.Fatal(err)
	}
	if err := fw.WritePlexN(8, 2); err != nil { // subElementCount
		t.Fatal(err)
	}

	// Unknown element: ID 0x999 (not one of the nine enumerated kinds),
	// size 3, arbitrary payload.
	if err := fw.WritePlexN(8, 0x999); err != nil {
		t.Fatal(err)
	}
	if err := fw.WritePlexN(8, 3); err != nil {
		t.Fatal(err)
	}
	if err := fw.WriteBytes([]byte{0xaa, 0xbb, 0xcc}); err != nil {
		t.Fatal(err)
	}

	// Real UserData element.
	ud := NewUserData([16]byte{1, 2, 3}, []byte("hello"))
	if err := ud.Serialize(fw); err != nil {
		t.Fatal(err)
	}

	var outer bytes.Buffer
	ow := bitstream.NewWriter(&outer)
	if err := ow.WritePlexN(8, uint64(IDIAFrame)); err != nil {
		t.Fatal(err)
	}
	if err := ow.WritePlexN(8, uint64(frameBuf.Len())); err != nil {
		t.Fatal(err)
	}
	if err := ow.WriteBytes(frameBuf.Bytes()); err != nil {
		t.Fatal(err)
	}

	got := parseFrame(t, outer.Bytes())
	if got.UndefinedSubElementCount != 1 {
		t.Errorf("UndefinedSubElementCount = %d, want 1", got.UndefinedSubElementCount)
	}
	if len(got.SubElements) != 1 {
		t.Fatalf("got %d sub-elements, want 1", len(got.SubElements))
	}
	gotUD, ok := got.SubElements[0].(*UserData)
	if !ok {
		t.Fatalf("sub-element type = %T, want *UserData", got.SubElements[0])
	}
	if string(gotUD.Payload) != "hello" {
		t.Errorf("Payload = %q, want %q", gotUD.Payload, "hello")
	}
}

func TestComputeMaxRenderedUnconditionalObjectsAndBed(t *testing.T) {
	obj1 := NewObjectDefinition()
	obj2 := NewObjectDefinition()
	bed := NewBedDefinition()
	bed.Channels = make([]IABChannel, 5)

	got := ComputeMaxRendered([]Element{obj1, obj2, bed})
	if got != 7 {
		t.Errorf("ComputeMaxRendered = %d, want 7 (1 + 1 + 5)", got)
	}
}

func TestComputeMaxRenderedConditionalBedsTakeMax(t *testing.T) {
	bed1 := NewBedDefinition()
	bed1.ConditionalFlag = true
	bed1.UseCase = UseCase51
	bed1.Channels = make([]IABChannel, 6)

	bed2 := NewBedDefinition()
	bed2.ConditionalFlag = true
	bed2.UseCase = UseCase71DS
	bed2.Channels = make([]IABChannel, 9)

	unconditionalObj := NewObjectDefinition()

	got := ComputeMaxRendered([]Element{bed1, bed2, unconditionalObj})
	if got != 10 {
		t.Errorf("ComputeMaxRendered = %d, want 10 (1 unconditional object + max(6, 9))", got)
	}
}
