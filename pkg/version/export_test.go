package version

var FromBuildInfo = fromBuildInfo
