package irc

// Numeric reply codes used by the client. Names follow the RFC 1459 /
// RFC 2812 conventions.
const (
	RplWelcome       = 1
	RplYourHost      = 2
	RplCreated       = 3
	RplMyInfo        = 4
	RplISupport      = 5
	RplStatsDLine    = 250
	RplLUserClient   = 251
	RplLUserOp       = 252
	RplLUserUnknown  = 253
	RplLUserChannels = 254
	RplLUserMe       = 255
	RplLocalUsers    = 265
	RplGlobalUsers   = 266
	RplAway          = 301
	RplWhoisUser     = 311
	RplListStart     = 321
	RplList          = 322
	RplListEnd       = 323
	RplChannelModeIs = 324
	RplNoTopic       = 331
	RplTopic         = 332
	RplInviting      = 341
	RplNamReply      = 353
	RplEndOfNames    = 366
	RplMOTD          = 372
	RplMOTDStart     = 375
	RplEndOfMOTD     = 376
	RplVisibleHost   = 396

	ErrNoSuchNick        = 401
	ErrNoSuchChannel     = 403
	ErrCannotSendToChan  = 404
	ErrNoRecipient       = 411
	ErrNoTextToSend      = 412
	ErrUnknownCommand    = 421
	ErrNoMOTD            = 422
	ErrNoNicknameGiven   = 431
	ErrErroneousNickname = 432
	ErrNicknameInUse     = 433
	ErrNickCollision     = 436
	ErrNotRegistered     = 451
	ErrNeedMoreParams    = 461
	ErrAlreadyRegistered = 462
	ErrPasswdMismatch    = 464
	ErrChannelIsFull     = 471
	ErrInviteOnlyChan    = 473
	ErrBannedFromChan    = 474
	ErrBadChannelKey     = 475
	ErrChanOpPrivsNeeded = 482

	RplLoggedIn    = 900
	RplLoggedOut   = 901
	ErrNickLocked  = 902
	RplSASLSuccess = 903
	ErrSASLFail    = 904
	ErrSASLTooLong = 905
	ErrSASLAborted = 906
	ErrSASLAlready = 907
	RplSASLMechs   = 908
)

// numericNames maps a three-digit reply code to its symbolic name. The
// table is read-only; unknown codes are still delivered, just without a name.
var numericNames = map[int]string{
	RplWelcome:       "RPL_WELCOME",
	RplYourHost:      "RPL_YOURHOST",
	RplCreated:       "RPL_CREATED",
	RplMyInfo:        "RPL_MYINFO",
	RplISupport:      "RPL_ISUPPORT",
	RplStatsDLine:    "RPL_STATSDLINE",
	RplLUserClient:   "RPL_LUSERCLIENT",
	RplLUserOp:       "RPL_LUSEROP",
	RplLUserUnknown:  "RPL_LUSERUNKNOWN",
	RplLUserChannels: "RPL_LUSERCHANNELS",
	RplLUserMe:       "RPL_LUSERME",
	RplLocalUsers:    "RPL_LOCALUSERS",
	RplGlobalUsers:   "RPL_GLOBALUSERS",
	RplAway:          "RPL_AWAY",
	RplWhoisUser:     "RPL_WHOISUSER",
	RplListStart:     "RPL_LISTSTART",
	RplList:          "RPL_LIST",
	RplListEnd:       "RPL_LISTEND",
	RplChannelModeIs: "RPL_CHANNELMODEIS",
	RplNoTopic:       "RPL_NOTOPIC",
	RplTopic:         "RPL_TOPIC",
	RplInviting:      "RPL_INVITING",
	RplNamReply:      "RPL_NAMREPLY",
	RplEndOfNames:    "RPL_ENDOFNAMES",
	RplMOTD:          "RPL_MOTD",
	RplMOTDStart:     "RPL_MOTDSTART",
	RplEndOfMOTD:     "RPL_ENDOFMOTD",
	RplVisibleHost:   "RPL_VISIBLEHOST",

	ErrNoSuchNick:        "ERR_NOSUCHNICK",
	ErrNoSuchChannel:     "ERR_NOSUCHCHANNEL",
	ErrCannotSendToChan:  "ERR_CANNOTSENDTOCHAN",
	ErrNoRecipient:       "ERR_NORECIPIENT",
	ErrNoTextToSend:      "ERR_NOTEXTTOSEND",
	ErrUnknownCommand:    "ERR_UNKNOWNCOMMAND",
	ErrNoMOTD:            "ERR_NOMOTD",
	ErrNoNicknameGiven:   "ERR_NONICKNAMEGIVEN",
	ErrErroneousNickname: "ERR_ERRONEUSNICKNAME",
	ErrNicknameInUse:     "ERR_NICKNAMEINUSE",
	ErrNickCollision:     "ERR_NICKCOLLISION",
	ErrNotRegistered:     "ERR_NOTREGISTERED",
	ErrNeedMoreParams:    "ERR_NEEDMOREPARAMS",
	ErrAlreadyRegistered: "ERR_ALREADYREGISTERED",
	ErrPasswdMismatch:    "ERR_PASSWDMISMATCH",
	ErrChannelIsFull:     "ERR_CHANNELISFULL",
	ErrInviteOnlyChan:    "ERR_INVITEONLYCHAN",
	ErrBannedFromChan:    "ERR_BANNEDFROMCHAN",
	ErrBadChannelKey:     "ERR_BADCHANNELKEY",
	ErrChanOpPrivsNeeded: "ERR_CHANOPRIVSNEEDED",

	RplLoggedIn:    "RPL_LOGGEDIN",
	RplLoggedOut:   "RPL_LOGGEDOUT",
	ErrNickLocked:  "ERR_NICKLOCKED",
	RplSASLSuccess: "RPL_SASLSUCCESS",
	ErrSASLFail:    "ERR_SASLFAIL",
	ErrSASLTooLong: "ERR_SASLTOOLONG",
	ErrSASLAborted: "ERR_SASLABORTED",
	ErrSASLAlready: "ERR_SASLALREADY",
	RplSASLMechs:   "RPL_SASLMECHS",
}

// NumericName returns the symbolic name for a reply code, or "" if the code
// is not in the table.
func NumericName(code int) string {
	return numericNames[code]
}
