// Package cookies loads browser-exported Netscape cookie files into an
// http.CookieJar so listing requests carry the user's Reddit session.
package cookies
