package theme_test

import (
	"testing/fstest"
)

const (
	coreCSS = "/*!\n * jQuery UI CSS Framework @VERSION\n */\n" +
		".ui-helper-hidden { display: none; }\n" +
		"* html .ui-helper-clearfix { height:1%; }\n"

	themeTemplate = "/*\n * To view and modify this theme, visit http://jqueryui.com/themeroller/\n */\n" +
		".ui-widget { font-family: Verdana,Arial,sans-serif/*{ffDefault}*/; font-size: 1.1em/*{fsDefault}*/; }\n" +
		".ui-widget-header { border: 1px solid #aaaaaa/*{borderColorHeader}*/; background: #cccccc/*{bgColorHeader}*/ url(images/ui-bg_highlight-soft_75_cccccc_1x100.png)/*{bgImgUrlHeader}*/ 50%/*{bgHeaderXPos}*/ 50%/*{bgHeaderYPos}*/ repeat-x/*{bgHeaderRepeat}*/; }\n" +
		".ui-widget-header .ui-icon { background-image: url(images/ui-icons_222222_256x240.png)/*{iconsHeader}*/; }\n"

	accordionCSS = ".ui-accordion .ui-accordion-header { cursor: pointer; }\n"
	buttonCSS    = "body .ui-button { display: inline-block; }\n"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// baseFS is themes/base directory of a release.
func baseFS() fstest.MapFS {
	return fstest.MapFS{
		"jquery.ui.core.css":      {Data: []byte(coreCSS)},
		"jquery.ui.theme.css":     {Data: []byte(themeTemplate)},
		"jquery.ui.button.css":    {Data: []byte(buttonCSS)},
		"jquery.ui.accordion.css": {Data: []byte(accordionCSS)},
		"jquery.ui.all.css":       {Data: []byte("@import \"jquery.ui.base.css\";\n")},
		"jquery.ui.base.css":      {Data: []byte("@import url(\"jquery.ui.core.css\");\n")},
		"images/ui-icons_222222_256x240.png": {Data: pngData},
	}
}

func releaseFS(themes string) fstest.MapFS {
	release := fstest.MapFS{
		"build/themes": {Data: []byte(themes)},
	}
	for name, f := range baseFS() {
		release["themes/base/"+name] = f
	}
	return release
}

func imagesFS(names ...string) fstest.MapFS {
	images := fstest.MapFS{}
	for _, name := range names {
		images[name] = &fstest.MapFile{Data: pngData}
	}
	return images
}
