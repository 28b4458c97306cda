package res

const (
	AppName       = "sonicbridge"
	DisplayName   = "Sonicbridge"
	AppVersion    = "0.1.0"
	AppVersionTag = "v" + AppVersion
	GithubURL     = "https://github.com/dweymouth/sonicbridge"
)
