package cmd

const bannerText = `
  __  __       _     _
 |  \/  | __ _| |__ (_)_ __ ___
 | |\/| |/ _` + "`" + ` | '_ \| | '__/ _ \
 | |  | | (_| | | | | | | | (_) |
 |_|  |_|\__,_|_| |_|_|_|  \___/

     Mahiro Favorability Adapter
`

// Banner returns the CLI banner string.
func Banner() string {
	return bannerText
}
