package motionphoto

import "fmt"

const xmpAdobeHeader = "http://ns.adobe.com/xap/1.0/\x00"

const xmpTemplate = `<x:xmpmeta xmlns:x="adobe:ns:meta/" x:xmptk="Adobe XMP Core 5.1.0-jc003">
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description rdf:about="" xmlns:GCamera="http://ns.google.com/photos/1.0/camera/" xmlns:Container="http://ns.google.com/photos/1.0/container/" xmlns:Item="http://ns.google.com/photos/1.0/container/item/">
   <GCamera:MotionPhoto>1</GCamera:MotionPhoto>
   <GCamera:MotionPhotoVersion>1</GCamera:MotionPhotoVersion>
   <GCamera:MotionPhotoPresentationTimestampUs>0</GCamera:MotionPhotoPresentationTimestampUs>
   <GCamera:MicroVideo>1</GCamera:MicroVideo>
   <GCamera:MicroVideoVersion>1</GCamera:MicroVideoVersion>
   <GCamera:MicroVideoPresentationTimestampUs>0</GCamera:MicroVideoPresentationTimestampUs>
   <GCamera:MicroVideoOffset>%d</GCamera:MicroVideoOffset>
   <GCamera:MicroVideoDuration>1000000</GCamera:MicroVideoDuration>
   <Container:Directory>
      <rdf:Seq>
         <rdf:li rdf:parseType="Resource">
            <Item:Mime>image/jpeg</Item:Mime>
            <Item:Semantic>Primary</Item:Semantic>
            <Item:Length>0</Item:Length>
         </rdf:li>
         <rdf:li rdf:parseType="Resource">
            <Item:Mime>video/mp4</Item:Mime>
            <Item:Semantic>MotionPhoto</Item:Semantic>
            <Item:Length>%d</Item:Length>
         </rdf:li>
      </rdf:Seq>
   </Container:Directory>
</rdf:Description>
</rdf:RDF>
</x:xmpmeta>`

func xmpDocument(videoSize, videoOffset int) string {
	return fmt.Sprintf(xmpTemplate, videoOffset, videoSize)
}

// app1Segment wraps an XMP document into a JPEG APP1 segment. The two length
// bytes cover the Adobe namespace header plus the payload, not themselves.
func app1Segment(xmp string) []byte {
	payload := []byte(xmp)
	length := len(xmpAdobeHeader) + len(payload)

	seg := make([]byte, 0, 4+length)
	seg = append(seg, 0xFF, 0xE1)
	seg = append(seg, byte(length>>8), byte(length))
	seg = append(seg, xmpAdobeHeader...)
	seg = append(seg, payload...)
	return seg
}
