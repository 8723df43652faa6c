package manifest

// samplePlaylist is trimmed from a real v.redd.it playlist.
const samplePlaylist = `<?xml version="1.0" encoding="UTF-8"?>
<MPD mediaPresentationDuration="PT12.5S" minBufferTime="PT1.500S" profiles="urn:mpeg:dash:profile:isoff-on-demand:2011" type="static" xmlns="urn:mpeg:dash:schema:mpd:2011">
  <Period duration="PT12.5S">
    <AdaptationSet contentType="video" maxFrameRate="30" maxHeight="1080" maxWidth="1920" par="16:9" segmentAlignment="true" subsegmentAlignment="true" subsegmentStartsWithSAP="1">
      <Representation bandwidth="272610" codecs="avc1.4d401e" frameRate="30" height="240" id="VIDEO-1" mimeType="video/mp4" sar="1:1" startWithSAP="1" width="426">
        <BaseURL>DASH_240.mp4</BaseURL>
        <SegmentBase indexRange="820-887" timescale="15360"><Initialization range="0-819"/></SegmentBase>
      </Representation>
      <Representation bandwidth="1203842" codecs="avc1.4d401f" frameRate="30" height="480" id="VIDEO-2" mimeType="video/mp4" sar="1:1" startWithSAP="1" width="854">
        <BaseURL>DASH_480.mp4</BaseURL>
      </Representation>
      <Representation bandwidth="4804021" codecs="avc1.640028" frameRate="30" height="1080" id="VIDEO-3" mimeType="video/mp4" sar="1:1" startWithSAP="1" width="1920">
        <BaseURL>DASH_1080.mp4</BaseURL>
      </Representation>
    </AdaptationSet>
    <AdaptationSet contentType="audio" lang="und" segmentAlignment="true" subsegmentAlignment="true" subsegmentStartsWithSAP="1">
      <Representation audioSamplingRate="48000" bandwidth="67707" codecs="mp4a.40.2" id="AUDIO-1" mimeType="audio/mp4" startWithSAP="1">
        <AudioChannelConfiguration schemeIdUri="urn:mpeg:dash:23003:3:audio_channel_configuration:2011" value="2"/>
        <BaseURL>DASH_AUDIO_64.mp4</BaseURL>
      </Representation>
      <Representation audioSamplingRate="48000" bandwidth="132536" codecs="mp4a.40.2" id="AUDIO-2" mimeType="audio/mp4" startWithSAP="1">
        <BaseURL>DASH_AUDIO_128.mp4</BaseURL>
      </Representation>
    </AdaptationSet>
  </Period>
</MPD>`

// legacyPlaylist carries the older single embedded audio track.
const legacyPlaylist = `<MPD><Period>
<AdaptationSet><Representation><BaseURL>DASH_720.mp4</BaseURL></Representation>
<Representation><BaseURL>DASH_360.mp4</BaseURL></Representation></AdaptationSet>
<AdaptationSet><Representation><BaseURL>DASH_audio.mp4</BaseURL></Representation></AdaptationSet>
</Period></MPD>`

// silentPlaylist has no audio adaptation set.
const silentPlaylist = `<MPD><Period><AdaptationSet>
<Representation><BaseURL>DASH_96.mp4</BaseURL></Representation>
<Representation><BaseURL>DASH_220.mp4</BaseURL></Representation>
</AdaptationSet></Period></MPD>`
