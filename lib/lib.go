package lib

type ArgsStruct interface {
	Description() string
}

var Commands = make(map[string]func())

var Args = make(map[string]ArgsStruct)

func panic1(err error) {
	if err != nil {
		panic(err)
	}
}

func Contains(parts []string, part string) bool {
	for _, p := range parts {
		if p == part {
			return true
		}
	}
	return false
}

func PreviewString(preview bool) string {
	if !preview {
		return ""
	}
	return "preview: "
}
