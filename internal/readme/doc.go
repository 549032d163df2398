// Package readme patches a markdown document with the current wallpaper.
//
// Lines 2 and 3 of the document form a fixed region:
//
//	# My wallpapers
//	**2024-04-25:** Sunset
//	![](https://cn.bing.com/th?id=OHR.Sunset_UHD.jpg&w=1000&pid=hp)[Sunset (© Someone)](https://cn.bing.com/th?id=OHR.Sunset_UHD.jpg&pid=hp)
//	...everything else is left alone...
package readme
